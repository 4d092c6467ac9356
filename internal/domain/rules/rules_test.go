package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpscan/mcpscan/internal/domain"
	"github.com/mcpscan/mcpscan/internal/domain/rules"
)

func tool(owner, member, name, desc string, audiences ...string) domain.Capability {
	return domain.NewCapability(owner, member, domain.KindTool, name, "", desc, audiences)
}

func prompt(owner, member, name, desc string) domain.Capability {
	return domain.NewCapability(owner, member, domain.KindPrompt, name, "", desc, nil)
}

func toolGroup(name string, members ...domain.Capability) domain.CapabilityGroup {
	return domain.CapabilityGroup{TypeName: name, Kind: domain.GroupTool, Members: members}
}

func byCategory(fs []domain.Finding, cat domain.Category) []domain.Finding {
	var out []domain.Finding
	for _, f := range fs {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

func hasFinding(fs []domain.Finding, cat domain.Category, sev domain.Severity, title string) bool {
	for _, f := range fs {
		if f.Category == cat && f.Severity == sev && f.Title == title {
			return true
		}
	}
	return false
}

func TestEngine_DeleteAllScenario(t *testing.T) {
	g := toolGroup("AdminTools",
		tool("AdminTools", "DeleteAll", "delete-all", "Deletes all system data"),
		tool("AdminTools", "ListUsers", "list-users", "Lists users"),
		tool("AdminTools", "Ping", "ping", "Health probe"),
		tool("AdminTools", "Echo", "echo", "Echoes a message"),
	)

	findings, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(context.Background(), []domain.CapabilityGroup{g})
	require.NoError(t, err)

	assert.True(t, hasFinding(findings, domain.CategoryToolPoisoning, domain.SeverityCritical, "Dangerous operation exposed"))
	assert.True(t, hasFinding(findings, domain.CategoryGeneralSecurity, domain.SeverityHigh, "Missing authorization"))
	assert.True(t, hasFinding(findings, domain.CategoryGeneralSecurity, domain.SeverityMedium, "Class without access control"))

	for _, f := range findings {
		if f.Title == "Class without access control" {
			assert.Equal(t, "AdminTools", f.Location)
		}
	}
}

func TestEngine_UserPromptScenario(t *testing.T) {
	g := domain.CapabilityGroup{
		TypeName: "Prompts",
		Kind:     domain.GroupPrompt,
		Members:  []domain.Capability{prompt("Prompts", "UserPrompt", "user-prompt", "Process this user input: {concatenated}")},
	}

	findings, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(context.Background(), []domain.CapabilityGroup{g})
	require.NoError(t, err)

	pi := byCategory(findings, domain.CategoryPromptInjection)
	require.Len(t, pi, 1)
	assert.Equal(t, domain.SeverityHigh, pi[0].Severity)
	assert.Equal(t, "Potential prompt injection", pi[0].Title)
	assert.Equal(t, "Prompts.UserPrompt", pi[0].Location)
	assert.Contains(t, pi[0].Evidence, "user")
	assert.Contains(t, pi[0].Evidence, "concat")
}

func TestPromptInjection_MissingDocumentation(t *testing.T) {
	c := prompt("Prompts", "Blank", "blank", "")
	fs := rules.PromptInjection(c, domain.CapabilityGroup{}, false, domain.DefaultVocabulary())
	require.Len(t, fs, 1)
	assert.Equal(t, "Prompt missing documentation", fs[0].Title)
	assert.Equal(t, domain.SeverityMedium, fs[0].Severity)
}

func TestPromptInjection_ValidationDiscount(t *testing.T) {
	v := domain.DefaultVocabulary()
	c := prompt("Prompts", "UserPrompt", "user-prompt", "Process this user input: {concatenated}")

	raw := rules.PromptInjection(c, domain.CapabilityGroup{}, false, v)
	disc := rules.PromptInjection(c, domain.CapabilityGroup{}, true, v)
	require.Len(t, raw, 1)
	require.Len(t, disc, 1)
	assert.Equal(t, domain.SeverityHigh, raw[0].Severity)
	assert.Equal(t, domain.SeverityMedium, disc[0].Severity)
	assert.Equal(t, raw[0].Title, disc[0].Title)
}

func TestPromptInjection_MissingDocumentationIsNotDiscounted(t *testing.T) {
	c := prompt("Prompts", "Blank", "blank", "")
	fs := rules.PromptInjection(c, domain.CapabilityGroup{}, true, domain.DefaultVocabulary())
	require.Len(t, fs, 1)
	assert.Equal(t, domain.SeverityMedium, fs[0].Severity)
}

func TestEngine_PromptGroupWithValidatingSibling(t *testing.T) {
	validated := domain.CapabilityGroup{
		TypeName: "SafePrompts",
		Kind:     domain.GroupPrompt,
		Members: []domain.Capability{
			prompt("SafePrompts", "UserPrompt", "user-prompt", "Process this user input: {concatenated}"),
			prompt("SafePrompts", "ValidateArgs", "validate-args", "Validates arguments before rendering"),
		},
	}
	plain := domain.CapabilityGroup{
		TypeName: "Prompts",
		Kind:     domain.GroupPrompt,
		Members:  []domain.Capability{prompt("Prompts", "UserPrompt", "user-prompt", "Process this user input: {concatenated}")},
	}

	findings, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(context.Background(), []domain.CapabilityGroup{validated, plain})
	require.NoError(t, err)

	pi := byCategory(findings, domain.CategoryPromptInjection)
	require.Len(t, pi, 2)
	for _, f := range pi {
		assert.Equal(t, "Potential prompt injection", f.Title)
		switch f.Location {
		case "SafePrompts.UserPrompt":
			assert.Equal(t, domain.SeverityMedium, f.Severity)
		case "Prompts.UserPrompt":
			assert.Equal(t, domain.SeverityHigh, f.Severity)
		default:
			t.Errorf("unexpected location %q", f.Location)
		}
	}
}

func TestPromptInjection_IgnoresTools(t *testing.T) {
	c := tool("T", "M", "m", "")
	assert.Empty(t, rules.PromptInjection(c, domain.CapabilityGroup{}, false, domain.DefaultVocabulary()))
}

func TestToolPoisoning_ValidationDiscount(t *testing.T) {
	v := domain.DefaultVocabulary()
	c := tool("FileTools", "Purge", "purge", "Delete a file by path")

	raw := rules.ToolPoisoning(c, domain.CapabilityGroup{}, false, v)
	disc := rules.ToolPoisoning(c, domain.CapabilityGroup{}, true, v)
	require.Len(t, raw, 3)
	require.Len(t, disc, 3)

	// Dangerous operations are never discounted.
	assert.Equal(t, domain.SeverityCritical, raw[0].Severity)
	assert.Equal(t, domain.SeverityCritical, disc[0].Severity)

	for i := 1; i < 3; i++ {
		assert.Equal(t, domain.SeverityHigh, raw[i].Severity, raw[i].Title)
		assert.Equal(t, domain.SeverityMedium, disc[i].Severity, disc[i].Title)
	}
}

func TestEngine_ValidationSignalIsGroupWide(t *testing.T) {
	g := toolGroup("FileTools",
		tool("FileTools", "ReadFile", "read_file", "Reads a file"),
		tool("FileTools", "CheckPath", "check_path", "Validates a path against the allowlist"),
	)
	other := toolGroup("OtherTools", tool("OtherTools", "ReadFile", "read_file", "Reads a file"))

	signals := rules.ValidationSignals([]domain.CapabilityGroup{g, other}, domain.DefaultVocabulary())
	assert.True(t, signals["FileTools"])
	assert.False(t, signals["OtherTools"])

	findings, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(context.Background(), []domain.CapabilityGroup{g, other})
	require.NoError(t, err)

	for _, f := range findings {
		if f.Title != "File system access" {
			continue
		}
		switch f.Location {
		case "FileTools.ReadFile":
			assert.Equal(t, domain.SeverityMedium, f.Severity)
		case "OtherTools.ReadFile":
			assert.Equal(t, domain.SeverityHigh, f.Severity)
		}
	}
}

func TestToolPoisoning_ChecksAreIndependent(t *testing.T) {
	v := domain.DefaultVocabulary()

	fs := rules.ToolPoisoning(tool("Db", "Lookup", "lookup", "Runs a sql query"), domain.CapabilityGroup{}, false, v)
	titles := make([]string, 0, len(fs))
	for _, f := range fs {
		titles = append(titles, f.Title)
	}
	// "run" hits dangerous operations, "sql" hits database; nothing hits the file system.
	assert.Equal(t, []string{"Dangerous operation exposed", "Database access"}, titles)
}

func TestToxicFlow(t *testing.T) {
	v := domain.DefaultVocabulary()
	g := domain.CapabilityGroup{}

	fs := rules.ToxicFlow(tool("Jobs", "Start", "start_async", "Starts the job"), g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, "Async operation without timeout", fs[0].Title)

	assert.Empty(t, rules.ToxicFlow(tool("Jobs", "Start", "start_async", "Starts the job with a timeout"), g, false, v))

	fs = rules.ToxicFlow(tool("Reports", "Gen", "generate_report", "Builds a PDF"), g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, "Expensive operation without rate limiting", fs[0].Title)
	assert.Contains(t, fs[0].Evidence, "generate")

	assert.Empty(t, rules.ToxicFlow(tool("Reports", "Gen", "generate_report", "Throttled to 1 per minute"), g, false, v))

	res := domain.NewCapability("Docs", "Fetch", domain.KindResource, "fetch_docs", "", "Docs", nil)
	assert.Empty(t, rules.ToxicFlow(res, g, false, v))
}

func TestGeneralSecurity(t *testing.T) {
	v := domain.DefaultVocabulary()
	g := domain.CapabilityGroup{}

	fs := rules.GeneralSecurity(tool("T", "Write", "write_file", "Writes bytes"), g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, "Missing authorization", fs[0].Title)
	assert.Equal(t, domain.SeverityHigh, fs[0].Severity)

	assert.Empty(t, rules.GeneralSecurity(tool("T", "Write", "write_file", "Writes bytes", "admin"), g, false, v))

	fs = rules.GeneralSecurity(tool("T", "Weather", "weather", "Calls the weather API"), g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, "External call", fs[0].Title)
	assert.Equal(t, domain.SeverityMedium, fs[0].Severity)
}

func TestGroupAccessControl(t *testing.T) {
	v := domain.DefaultVocabulary()
	members := []domain.Capability{
		tool("G", "A", "a", ""), tool("G", "B", "b", ""), tool("G", "C", "c", ""),
	}

	assert.Empty(t, rules.GroupAccessControl(toolGroup("G", members...), v), "three members is not enough")

	big := toolGroup("G", append(members, tool("G", "D", "d", ""))...)
	require.Len(t, rules.GroupAccessControl(big, v), 1)

	big.Audiences = []string{"admin"}
	assert.Empty(t, rules.GroupAccessControl(big, v))

	prompts := domain.CapabilityGroup{TypeName: "P", Kind: domain.GroupPrompt, Members: append(members, tool("G", "D", "d", ""))}
	assert.Empty(t, rules.GroupAccessControl(prompts, v))
}

func TestEnhancedRules(t *testing.T) {
	v := domain.DefaultVocabulary()
	g := toolGroup("Secrets")

	c := domain.NewCapability("Secrets", "Get", domain.KindTool, "get_config", "Show API_KEY", "Returns settings", nil)
	fs := rules.SecretsExposure(c, g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, domain.SeverityCritical, fs[0].Severity)
	assert.Contains(t, fs[0].Description, "api_key")

	fs = rules.MissingAuditLogging(tool("Users", "Remove", "remove_user", "Removes a user"), g, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, domain.CategoryAuditLogging, fs[0].Category)

	assert.Empty(t, rules.MissingAuditLogging(tool("Users", "Remove", "remove_user", "Removes a user and writes an audit entry"), g, false, v))

	resources := domain.CapabilityGroup{TypeName: "R", Kind: domain.GroupResource}
	assert.Empty(t, rules.MissingAuditLogging(tool("R", "Remove", "remove", ""), resources, false, v))
}

func TestEngine_EnhancedRulesAreOptIn(t *testing.T) {
	g := toolGroup("Auth", tool("Auth", "Rotate", "rotate_password", "Rotates the password"))
	groups := []domain.CapabilityGroup{g}

	std, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(context.Background(), groups)
	require.NoError(t, err)
	assert.Empty(t, byCategory(std, domain.CategorySecretsExposure))

	enh, err := rules.NewEngine(domain.DefaultVocabulary(), true).Evaluate(context.Background(), groups)
	require.NoError(t, err)
	assert.Len(t, byCategory(enh, domain.CategorySecretsExposure), 1)
}

func TestEngine_DeterministicOrder(t *testing.T) {
	var groups []domain.CapabilityGroup
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		groups = append(groups, toolGroup(name,
			tool(name, "Exec", "exec_shell", "Runs a shell command"),
			tool(name, "Read", "read_file", "Reads a file via http"),
		))
	}
	engine := rules.NewEngine(domain.DefaultVocabulary(), true)

	first, err := engine.Evaluate(context.Background(), groups)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.Evaluate(context.Background(), groups)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "A.Exec", first[0].Location)
	assert.Equal(t, "F.Read", first[len(first)-1].Location)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rules.NewEngine(domain.DefaultVocabulary(), false).Evaluate(ctx, []domain.CapabilityGroup{toolGroup("A", tool("A", "B", "b", ""))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_CustomVocabulary(t *testing.T) {
	v, err := domain.DefaultVocabulary().WithOverrides(map[string][]string{
		domain.VocabDangerousOperations: {"nuke"},
	})
	require.NoError(t, err)

	fs := rules.ToolPoisoning(tool("T", "N", "nuke_it", ""), domain.CapabilityGroup{}, false, v)
	require.Len(t, fs, 1)
	assert.Equal(t, domain.SeverityCritical, fs[0].Severity)

	assert.Empty(t, rules.ToolPoisoning(tool("T", "K", "kill", ""), domain.CapabilityGroup{}, false, v))
}
