package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ankurk/repolens/analyzer/models"
	"github.com/ankurk/repolens/embed_data"
)

// Section is one step of a report schedule: a stable key, the heading
// used in the final document, and the targeted prompt for the model.
type Section struct {
	Key    string
	Title  string
	Prompt string
}

// AuditSections returns the fixed schedule for audit mode.
func AuditSections() []Section {
	return []Section{
		{"purpose", "Purpose of this Repository", purposePrompt},
		{"overview", "Repository Overview & Metrics", overviewPrompt},
		{"technology", "Technology Stack Analysis", technologyPrompt},
		{"architecture", "Architectural Analysis", architecturePrompt},
		{"business", "Business Domain & Functionality", businessPrompt},
		{"implementation", "Implementation Deep Dive", implementationPrompt},
		{"infrastructure", "Infrastructure & Deployment", infrastructurePrompt},
		{"workflow", "Development Workflow", workflowPrompt},
		{"security", "Security & Compliance", securityPrompt},
		{"performance", "Performance & Optimization", performancePrompt},
		{"maintenance", "Maintenance & Evolution", maintenancePrompt},
	}
}

// ExplanationSections returns the fixed schedule for explanation mode.
func ExplanationSections() []Section {
	return []Section{
		{"vision", "Project Vision & Technical Goals", visionPrompt},
		{"overview", "System Overview & Design Philosophy", designOverviewPrompt},
		{"technology", "Technology Choices & Engineering Rationale", technologyChoicesPrompt},
		{"architecture", "Architecture Decisions & Trade-offs", architectureDecisionsPrompt},
		{"implementation", "Implementation Strategy & Patterns", implementationStrategyPrompt},
		{"features", "Core Features & Logic Implementation", featuresPrompt},
		{"infrastructure", "Infrastructure & Deployment Strategy", infrastructureStrategyPrompt},
		{"development", "Development Approach & Workflow", developmentPrompt},
		{"challenges", "Technical Challenges & Solutions", challengesPrompt},
		{"future", "Future Roadmap & Evolution", futurePrompt},
	}
}

// BuildAuditContext assembles the shared context block prepended to every
// audit section prompt.
func BuildAuditContext(repoName string, chunkAnalyses []string, gitInfo models.GitInfo, envFiles map[string]models.EnvFile) string {
	combined := joinChunkAnalyses(chunkAnalyses, "CHUNK")

	return fmt.Sprintf(`
REPOSITORY: %s

GIT INFORMATION:
%s

ENVIRONMENT CONFIGURATION:
%s

DETAILED CODE ANALYSIS:
%s
`, repoName, summarizeGitInfo(gitInfo), summarizeEnvFiles(envFiles), combined)
}

// BuildExplanationContext assembles the shared context block for
// explanation mode. A non-empty humanContext is folded in as insider
// knowledge for the model to draw on.
func BuildExplanationContext(repoName string, chunkAnalyses []string, gitInfo models.GitInfo, envFiles map[string]models.EnvFile, humanContext string) string {
	combined := joinChunkAnalyses(chunkAnalyses, "CODEBASE SECTION")

	var sb strings.Builder
	fmt.Fprintf(&sb, `
PROJECT: %s

REPOSITORY INFORMATION:
%s

ENVIRONMENT & CONFIGURATION:
%s`, repoName, summarizeGitInfo(gitInfo), summarizeEnvFiles(envFiles))

	if humanContext != "" {
		fmt.Fprintf(&sb, `

DEVELOPMENT CONTEXT:
%s

IMPORTANT: Use this development context to provide more accurate explanations
of design decisions. Consider the specific technical requirements, constraints,
and implementation considerations mentioned when explaining the rationale
behind engineering choices.
`, humanContext)
	}

	fmt.Fprintf(&sb, `

CODEBASE ANALYSIS:
%s
`, combined)

	return sb.String()
}

// BuildAuditSectionPrompt wraps one audit section's prompt with the shared
// context and the audit requirements block.
func BuildAuditSectionPrompt(section Section, baseContext string) string {
	return fmt.Sprintf(`
%s

ANALYSIS TASK: %s

%s

%s
`, baseContext, section.Title, section.Prompt, string(embed_data.AuditRequirements))
}

// BuildExplanationSectionPrompt wraps one explanation section's prompt
// with the shared context and the developer-perspective requirements.
func BuildExplanationSectionPrompt(section Section, baseContext string) string {
	return fmt.Sprintf(`
%s

EXPLANATION TASK: %s

%s

%s
`, baseContext, section.Title, section.Prompt, string(embed_data.ExplanationRequirements))
}

// SynthesizeAuditReport assembles the final audit document from the
// per-section results, in schedule order.
func SynthesizeAuditReport(repoName string, results map[string]string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Comprehensive Technical Analysis: %s\n\n*Generated on: %s*\n\n---\n\n",
		repoName, now.Format("2006-01-02 15:04:05"))

	for _, section := range AuditSections() {
		content, ok := results[section.Key]
		if !ok {
			content = "Analysis not available"
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n---\n\n", section.Title, content)
	}

	return sb.String()
}

// SynthesizeExplanationReport assembles the final developer guide from
// the per-section results.
func SynthesizeExplanationReport(repoName string, results map[string]string, humanContext string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `# Developer's Guide to %s

*Technical perspective on design decisions, implementation choices, and engineering philosophy*

*Generated on: %s*

---

## Introduction

This guide provides technical context and reasoning behind the engineering decisions made in developing %s.
It explains not just what the system does, but why it was built this way and how the technical choices
support the project's requirements.

`, repoName, now.Format("2006-01-02 15:04:05"), repoName)

	if humanContext != "" {
		fmt.Fprintf(&sb, `## Development Context

**Context Provided:**
%s

This explanation incorporates the provided development context to offer more accurate
insights into design decisions and implementation reasoning.

---

`, humanContext)
	}

	for _, section := range ExplanationSections() {
		content, ok := results[section.Key]
		if !ok {
			content = "Explanation not available"
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n---\n\n", section.Title, content)
	}

	fmt.Fprintf(&sb, `
## Conclusion

This guide represents the accumulated technical knowledge and experience from developing %s.
The decisions documented here reflect the balance between various technical, system, and
practical constraints at the time of development.

As the system continues to evolve, these insights serve as a foundation for future
development decisions and help maintain consistency with the original engineering vision.
`, repoName)

	return sb.String()
}

func joinChunkAnalyses(chunkAnalyses []string, label string) string {
	parts := make([]string, len(chunkAnalyses))
	for i, analysis := range chunkAnalyses {
		parts[i] = fmt.Sprintf("%s %d:\n%s", label, i+1, analysis)
	}
	return strings.Join(parts, "\n\n---CHUNK SEPARATOR---\n\n")
}

func summarizeGitInfo(gitInfo models.GitInfo) string {
	if !gitInfo.IsRepo {
		return "- Not a Git repository"
	}

	var summary []string
	repoURL := gitInfo.RepositoryURL
	if repoURL == "" {
		repoURL = "Local repository"
	}
	summary = append(summary, "- Repository: "+repoURL)
	if gitInfo.CurrentBranch != "" {
		summary = append(summary, "- Current branch: "+gitInfo.CurrentBranch)
	}
	if gitInfo.TotalCommits > 0 {
		summary = append(summary, fmt.Sprintf("- Total commits: %d", gitInfo.TotalCommits))
	}
	if len(gitInfo.Branches) > 0 {
		summary = append(summary, fmt.Sprintf("- Total branches: %d", len(gitInfo.Branches)))
	}

	return strings.Join(summary, "\n")
}

func summarizeEnvFiles(envFiles map[string]models.EnvFile) string {
	if len(envFiles) == 0 {
		return "No environment configuration files found."
	}

	totalVars := 0
	for _, env := range envFiles {
		totalVars += env.VariableCount
	}

	summary := []string{
		fmt.Sprintf("Environment configuration includes %d files with %d variables total.", len(envFiles), totalVars),
	}
	for path, env := range envFiles {
		if env.VariableCount > 0 {
			summary = append(summary, fmt.Sprintf("- %s: %d configuration variables", path, env.VariableCount))
		}
	}

	return strings.Join(summary, "\n")
}

const purposePrompt = `
Analyze the PURPOSE and CORE MISSION of this repository:

- What is the primary business purpose this codebase serves?
- What problems does it solve and for whom?
- Is this a service, library, application, or infrastructure component?
- What are the key value propositions and unique features?
- How does this fit into a larger ecosystem or business strategy?

Look for evidence in README files, API endpoints, database schemas,
integration points, and deployment configuration.

Provide a clear, executive-level summary of what this repository does and why it exists.
`

const overviewPrompt = `
Create a comprehensive REPOSITORY OVERVIEW & METRICS analysis:

- Total lines of code by language, file/module/package counts
- Complexity indicators (classes, functions, endpoints)
- Project organization, folder hierarchy, and naming conventions
- Entry points and main execution flows
- Configuration files, external dependencies, and build artifacts
- Code organization quality, documentation coverage, and setup complexity

Provide quantitative metrics and qualitative assessment of repository health and organization.
`

const technologyPrompt = `
Conduct deep TECHNOLOGY STACK ANALYSIS:

- Programming languages, frameworks, and libraries with versions
- Database technologies, caching, messaging, and middleware
- Build tools, package managers, and development tools
- Why these technologies were likely chosen and how they integrate
- Critical dependencies, potential vulnerabilities, and license implications

Provide a comprehensive technology inventory with strategic assessment of choices and implications.
`

const architecturePrompt = `
Perform detailed ARCHITECTURAL ANALYSIS:

- Overall system design patterns (microservices, monolith, modular, etc.)
- Component interactions, data flow, and service boundaries
- Design patterns implementation (MVC, Repository, Factory, etc.)
- Abstraction layers, module coupling, and separation of concerns
- Database design, data access patterns, and caching strategies
- How the architecture supports scaling and extension

Provide an architectural assessment with strengths, weaknesses, and evolution recommendations.
`

const businessPrompt = `
Analyze BUSINESS DOMAIN & FUNCTIONALITY:

- Core business processes, workflows, and domain models
- Business rules, validation logic, and permission systems
- Key features, user journeys, and API capabilities
- Revenue generation or cost savings mechanisms
- Industry-specific requirements and compliance
- Integration with business systems and processes

Provide a business-focused analysis showing how technology supports business objectives.
`

const implementationPrompt = `
Conduct IMPLEMENTATION DEEP DIVE:

- Coding standards, consistency, and error handling
- Input validation and data sanitization
- Key algorithms and their efficiency
- External API integrations and database interaction patterns
- Async processing and import/export mechanisms
- Test coverage, testing strategies, and quality gates

Provide a technical assessment of implementation quality with specific improvement opportunities.
`

const infrastructurePrompt = `
Analyze INFRASTRUCTURE & DEPLOYMENT:

- Containerization, orchestration, and environment configuration
- Deployment pipelines, automation, and rollback mechanisms
- Infrastructure as code and environment provisioning
- Monitoring, observability, health checks, and disaster recovery
- Cloud provider usage and vendor lock-in considerations

Provide an infrastructure assessment with deployment, scaling, and operational recommendations.
`

const workflowPrompt = `
Evaluate DEVELOPMENT WORKFLOW:

- Code organization, build processes, and testing workflows
- Continuous integration setup and deployment automation
- Release management and versioning
- Development environment setup and productivity tools
- Documentation, knowledge management, and onboarding considerations

Provide a development workflow analysis with productivity and quality improvement recommendations.
`

const securityPrompt = `
Conduct SECURITY & COMPLIANCE analysis:

- Authentication and authorization mechanisms
- Input validation, SQL injection and XSS prevention
- API security, rate limiting, and session management
- Sensitive data handling, encryption, and audit trails
- Common vulnerabilities present and dependency security
- Configuration hardening and potential attack vectors

Provide a security assessment with specific vulnerabilities, compliance gaps, and remediation priorities.
`

const performancePrompt = `
Analyze PERFORMANCE & OPTIMIZATION:

- Response time, throughput, and resource utilization patterns
- Bottleneck identification and scalability constraints
- Caching implementation and database query optimization
- Memory management and network/IO optimization
- Performance monitoring, alerting, and benchmarking
- Horizontal and vertical scaling capabilities

Provide a performance analysis with specific bottlenecks, optimization opportunities, and scaling recommendations.
`

const maintenancePrompt = `
Evaluate MAINTENANCE & EVOLUTION:

- Code complexity, readability, and documentation quality
- Refactoring opportunities and technical debt
- Extensibility, upgrade paths, and migration strategies
- Monitoring, debugging, and troubleshooting capabilities
- Technology roadmap and knowledge transfer requirements

Provide a maintenance analysis with technical debt assessment, evolution roadmap, and resource planning recommendations.
`

const visionPrompt = `
Explain the PROJECT VISION & TECHNICAL GOALS from the development perspective:

- What technical problem this project was built to solve
- The system requirements, constraints, and target performance characteristics
- What triggered the initial development requirement and how scope evolved
- How the current implementation addresses the original requirements
- Technical compromises made and their engineering rationale

Provide a technical explanation of why this system exists and what engineering goals it aims to achieve.
`

const designOverviewPrompt = `
Explain the SYSTEM OVERVIEW & DESIGN PHILOSOPHY:

- The core architectural patterns and design principles followed
- The mental model developers need when working with this codebase
- How the codebase is structured and why this organization was chosen
- Naming conventions and their technical reasoning
- Coding standards, testing strategy, and documentation approach

Provide a technical overview that helps developers understand the engineering thinking behind the system design.
`

const technologyChoicesPrompt = `
Explain TECHNOLOGY CHOICES & ENGINEERING RATIONALE:

- Why specific languages and frameworks were chosen for different components
- Database and third-party library decisions, and alternatives considered
- Performance and scalability requirements that influenced choices
- How different technologies work together in the system
- Lessons learned and areas where different choices might be made today

Provide an in-depth technical explanation of technology decisions with the reasoning behind each major choice.
`

const architectureDecisionsPrompt = `
Explain ARCHITECTURE DECISIONS & TRADE-OFFS:

- The overall architectural pattern chosen and its technical reasoning
- How major components were designed and their interactions
- Error handling, resilience, and security strategies
- Complexity vs maintainability and performance vs flexibility trade-offs
- How the architecture supports future changes and extensions

Provide a deep architectural explanation focusing on the engineering reasoning behind design decisions.
`

const implementationStrategyPrompt = `
Explain IMPLEMENTATION STRATEGY & PATTERNS:

- Development methodology and implementation strategy followed
- Specific design patterns implemented and why they were chosen
- Error handling philosophy and testing integration
- Code quality standards and technical debt management
- Debugging, deployment, and observability practices

Provide a technical explanation of how the system was built, focusing on implementation wisdom and engineering practices.
`

const featuresPrompt = `
Explain CORE FEATURES & LOGIC IMPLEMENTATION:

- How features were prioritized and developed
- How complex rules and workflows were translated into code
- Domain modeling approach and state management
- Feature structure, reusability, and configuration capabilities
- Performance optimization and error handling for critical features

Provide a feature-focused explanation that connects functional requirements to technical implementation decisions.
`

const infrastructureStrategyPrompt = `
Explain INFRASTRUCTURE & DEPLOYMENT STRATEGY:

- The infrastructure approach chosen and its technical reasoning
- Deployment pipeline design, environment management, and rollback planning
- Monitoring and alerting strategy implementation
- How operational requirements influenced design decisions
- How the infrastructure supports system growth

Provide an infrastructure explanation covering both technical decisions and operational wisdom.
`

const developmentPrompt = `
Explain DEVELOPMENT APPROACH & WORKFLOW:

- Development process chosen and its adaptation to the project
- Code collaboration, review processes, and release strategies
- Developer tooling, environment setup, and onboarding
- How the development process evolved over time

Provide a technical explanation of how the development team works and the reasoning behind workflow decisions.
`

const challengesPrompt = `
Explain TECHNICAL CHALLENGES & SOLUTIONS:

- Significant technical obstacles encountered during development
- Performance, scalability, and integration challenges and their solutions
- How technical problems were analyzed and approached
- Creative or unconventional solutions developed
- What worked well and what didn't in problem-solving

Provide a problem-solving focused explanation that shares engineering wisdom gained through challenges.
`

const futurePrompt = `
Explain FUTURE ROADMAP & EVOLUTION:

- Planned improvements, feature additions, and technical debt reduction priorities
- Technology upgrades and migration plans
- How the system is prepared for growth and scale
- Areas identified for innovation and experimentation

Provide a forward-looking explanation that shows how the system is positioned for future growth and evolution.
`
