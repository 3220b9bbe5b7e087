package integration

import (
	"os"
	"path/filepath"
	"testing"

	"localint/internal/config"
	"localint/internal/output"
	"localint/internal/parser"
	"localint/internal/verify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, cfg *config.Config, source string) []verify.Warning {
	t.Helper()

	frontend := parser.NewFrontend()
	chunk, err := frontend.ParseFile("test.lua", []byte(source))
	require.NoError(t, err)

	v, err := verify.New(verify.Options{
		Globals:          cfg.Globals.Names,
		GlobalPatterns:   cfg.Globals.Patterns,
		Derived:          cfg.Derived.Constructors,
		DerivedSeparator: cfg.Derived.Separator,
		CloneName:        cfg.Derived.Clone,
	})
	require.NoError(t, err)
	require.NoError(t, v.Check(chunk))
	return v.Warnings()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Globals.Names = []string{"print", "pairs", "CreateUnit"}
	cfg.Globals.Patterns = []string{"Game.*"}
	cfg.Derived.Constructors = map[string][]string{
		"CreateUnit": {"SetHealth", "SetName", "Clone"},
	}
	return cfg
}

func TestCleanScript(t *testing.T) {
	source := `
local hp = 100
local name = "grunt"
print(name, hp)

local function damage(amount)
    hp = hp - amount
    return hp
end

if damage(10) > 0 then
    print("still alive")
end
`
	warnings := analyze(t, testConfig(t), source)
	assert.Empty(t, warnings)
}

func TestUseBeforeDefinition(t *testing.T) {
	source := `
print(score)
local total = score + 1
`
	warnings := analyze(t, testConfig(t), source)
	require.Len(t, warnings, 1)
	assert.Equal(t, verify.WarnUseUndefined, warnings[0].Kind)
	assert.Equal(t, "score", warnings[0].Name)
}

func TestLaterDefinitionRetractsEarlierUse(t *testing.T) {
	source := `
print(score)
local score = 5
print(score)
`
	warnings := analyze(t, testConfig(t), source)
	assert.Empty(t, warnings)
}

func TestRedefinitionInSameScope(t *testing.T) {
	source := `
local hp = 100
local hp = 50
`
	warnings := analyze(t, testConfig(t), source)
	require.Len(t, warnings, 1)
	assert.Equal(t, verify.WarnRedefinition, warnings[0].Kind)
	assert.Equal(t, "hp", warnings[0].Name)
}

func TestShadowingInNestedScopeIsClean(t *testing.T) {
	source := `
local hp = 100
local function reset(hp)
    return hp
end
`
	warnings := analyze(t, testConfig(t), source)
	assert.Empty(t, warnings)
}

func TestFunctionLocalsDoNotLeak(t *testing.T) {
	source := `
local function setup()
    local buffer = {}
    return buffer
end
print(buffer)
`
	warnings := analyze(t, testConfig(t), source)
	require.Len(t, warnings, 1)
	assert.Equal(t, "buffer", warnings[0].Name)
}

func TestDerivedMembersAndClone(t *testing.T) {
	source := `
local u = CreateUnit()
u:SetHealth(50)
u:SetName("grunt")

local copy = u:Clone()
copy:SetHealth(10)
`
	warnings := analyze(t, testConfig(t), source)
	assert.Empty(t, warnings)
}

func TestUnlistedDerivedMemberWarns(t *testing.T) {
	source := `
local u = CreateUnit()
u:SetArmor(3)
`
	warnings := analyze(t, testConfig(t), source)
	require.Len(t, warnings, 1)
	assert.Equal(t, verify.WarnUseUndefined, warnings[0].Kind)
	assert.Equal(t, "u:SetArmor", warnings[0].Name)
}

func TestGlobalPatternWhitelist(t *testing.T) {
	source := `
Game.Spawn("grunt")
local level = Game.CurrentLevel()
print(level)
`
	warnings := analyze(t, testConfig(t), source)
	assert.Empty(t, warnings)
}

func TestOutputsFromRealRun(t *testing.T) {
	cfg := testConfig(t)
	source := `
print(missing)
local hp = 1
local hp = 2
`
	warnings := analyze(t, cfg, source)
	require.Len(t, warnings, 2)

	results := []output.FileResult{{Path: "scripts/test.lua", Warnings: warnings}}

	text := output.GenerateText(results)
	assert.Contains(t, text, "Warning #1")
	assert.Contains(t, text, "Warning #2")

	tsv := output.GenerateTSV(results)
	assert.Contains(t, tsv, "missing")
	assert.Contains(t, tsv, "UseUndefined")

	sarif, err := output.GenerateSARIF("scripts", "test", results)
	require.NoError(t, err)
	assert.Contains(t, string(sarif), "LNT001")
	assert.Contains(t, string(sarif), "LNT002")
}

func TestConfigRoundTripFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "localint.toml")
	raw := `
paths = ["scripts"]

[globals]
names = ["print", "CreateUnit"]
patterns = ["Game.*"]

[derived]
separator = ":"
clone = "Clone"

[derived.constructors]
CreateUnit = ["SetHealth", "Clone"]
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	warnings := analyze(t, cfg, `
local u = CreateUnit()
u:SetHealth(10)
local twin = u:Clone()
twin:SetHealth(1)
`)
	assert.Empty(t, warnings)
}
