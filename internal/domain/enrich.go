package domain

// CategoryInfo is the fixed remediation material attached to every finding
// of a category.
type CategoryInfo struct {
	Category          Category `json:"category"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Remediation       string   `json:"remediation"`
	CodeExample       string   `json:"code_example"`
	DocumentationLink string   `json:"documentation_link"`
}

var catalog = map[Category]CategoryInfo{
	CategoryPromptInjection: {
		Category: CategoryPromptInjection,
		Code:     "CWE-1427",
		Name:     "Improper Neutralization of Input Used for LLM Prompting",
		Remediation: "Never splice caller-supplied text directly into prompt templates. Pass user content as a " +
			"separate, clearly delimited message, validate argument length and character set, and document " +
			"which arguments are trusted.",
		CodeExample: "messages := []Message{\n" +
			"\t{Role: \"system\", Content: systemPrompt},\n" +
			"\t{Role: \"user\", Content: sanitize(userInput)},\n" +
			"}",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/1427.html",
	},
	CategoryToolPoisoning: {
		Category: CategoryToolPoisoning,
		Code:     "CWE-94",
		Name:     "Improper Control of Generation of Code",
		Remediation: "Restrict dangerous tools to an explicit allowlist of operations, validate every argument " +
			"against a strict schema, require confirmation for destructive actions and run them with the " +
			"least privilege possible.",
		CodeExample: "if !allowedCommands[req.Command] {\n" +
			"\treturn nil, fmt.Errorf(\"command %q is not allowed\", req.Command)\n" +
			"}",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/94.html",
	},
	CategoryToxicFlow: {
		Category: CategoryToxicFlow,
		Code:     "CWE-400",
		Name:     "Uncontrolled Resource Consumption",
		Remediation: "Bound long-running and expensive operations with timeouts, cancellation and per-client " +
			"rate limits, and document those limits in the capability description.",
		CodeExample: "ctx, cancel := context.WithTimeout(ctx, 30*time.Second)\n" +
			"defer cancel()\n" +
			"if err := limiter.Wait(ctx); err != nil {\n" +
			"\treturn nil, err\n" +
			"}",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/400.html",
	},
	CategoryGeneralSecurity: {
		Category: CategoryGeneralSecurity,
		Code:     "CWE-862",
		Name:     "Missing Authorization",
		Remediation: "Declare the intended audience of every sensitive capability, enforce authorization before " +
			"executing it and validate outbound destinations for capabilities that call external services.",
		CodeExample: "if !caller.HasRole(\"admin\") {\n" +
			"\treturn nil, ErrForbidden\n" +
			"}",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/862.html",
	},
	CategorySecretsExposure: {
		Category: CategorySecretsExposure,
		Code:     "CWE-798",
		Name:     "Use of Hard-coded Credentials",
		Remediation: "Do not accept, return or describe secrets in capability metadata. Load credentials from a " +
			"secret store at runtime and redact them from tool output and logs.",
		CodeExample: "token := os.Getenv(\"SERVICE_TOKEN\")\n" +
			"if token == \"\" {\n" +
			"\treturn errors.New(\"SERVICE_TOKEN is not set\")\n" +
			"}",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/798.html",
	},
	CategoryAuditLogging: {
		Category: CategoryAuditLogging,
		Code:     "CWE-778",
		Name:     "Insufficient Logging",
		Remediation: "Record who invoked every state-changing capability, with which arguments and with what " +
			"outcome, in an append-only audit log.",
		CodeExample: "logger.Info(\"tool invoked\",\n" +
			"\tzap.String(\"tool\", name),\n" +
			"\tzap.String(\"caller\", caller.ID),\n" +
			")",
		DocumentationLink: "https://cwe.mitre.org/data/definitions/778.html",
	},
}

// Catalog returns the remediation material for every category in report order.
func Catalog() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(ValidCategories))
	for _, c := range ValidCategories {
		out = append(out, catalog[c])
	}
	return out
}

// LookupCategory returns the remediation material for one category.
func LookupCategory(c Category) (CategoryInfo, bool) {
	info, ok := catalog[c]
	return info, ok
}

// Enrich attaches the classification code, example and link of each
// finding's category. A finding's own recommendation is preserved.
func Enrich(findings []Finding) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		if info, ok := catalog[f.Category]; ok {
			f.ClassificationCode = info.Code
			f.CodeExample = info.CodeExample
			f.DocumentationLink = info.DocumentationLink
			if f.Recommendation == "" {
				f.Recommendation = info.Remediation
			}
		}
		out[i] = f
	}
	return out
}
