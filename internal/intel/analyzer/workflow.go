package analyzer

import (
	"path"
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
)

const workflowConfidence = 0.75

type workflowRule struct {
	trigger string
	next    string
	reason  string
}

// workflowRules is checked top to bottom; the first substring hit wins.
// Placeholders: {last_arg} is the final argument, {repo} its base name
// without a .git suffix.
var workflowRules = []workflowRule{
	{trigger: "git clone", next: "cd {repo}", reason: "Enter the cloned repository"},
	{trigger: "git checkout -b", next: "git push -u origin {last_arg}", reason: "Publish the new branch"},
	{trigger: "git switch -c", next: "git push -u origin {last_arg}", reason: "Publish the new branch"},
	{trigger: "git add", next: "git commit", reason: "Commit the staged changes"},
	{trigger: "git commit", next: "git push", reason: "Push your new commit"},
	{trigger: "git pull", next: "git log --oneline -5", reason: "Review what just came in"},
	{trigger: "git stash pop", next: "git status", reason: "Check the restored changes"},
	{trigger: "git stash apply", next: "git status", reason: "Check the restored changes"},
	{trigger: "git stash", next: "git stash pop", reason: "Restore stashed changes when ready"},
	{trigger: "mkdir", next: "cd {last_arg}", reason: "Enter the new directory"},
	{trigger: "npm init", next: "npm install", reason: "Install dependencies"},
	{trigger: "npm install", next: "npm run dev", reason: "Start the development server"},
	{trigger: "yarn install", next: "yarn dev", reason: "Start the development server"},
	{trigger: "go mod init", next: "go mod tidy", reason: "Resolve module requirements"},
	{trigger: "go build", next: "go test ./...", reason: "Run the test suite"},
	{trigger: "cargo new", next: "cd {last_arg}", reason: "Enter the new crate"},
	{trigger: "cargo build", next: "cargo test", reason: "Run the test suite"},
	{trigger: "docker build", next: "docker images", reason: "Check the built image"},
	{trigger: "docker compose up", next: "docker compose logs -f", reason: "Follow service logs"},
	{trigger: "terraform init", next: "terraform plan", reason: "Preview infrastructure changes"},
	{trigger: "terraform plan", next: "terraform apply", reason: "Apply the planned changes"},
	{trigger: "python -m venv", next: "source {last_arg}/bin/activate", reason: "Activate the virtual environment"},
	{trigger: "kubectl apply", next: "kubectl get pods", reason: "Check rollout status"},
}

// Workflow suggests the well-known next step after the most recent command.
func Workflow(in Input) []domain.Suggestion {
	recent := strings.TrimSpace(in.mostRecent())
	if recent == "" {
		return nil
	}
	lower := strings.ToLower(recent)
	for _, rule := range workflowRules {
		if !strings.Contains(lower, rule.trigger) {
			continue
		}
		next, ok := expandTemplate(rule.next, recent)
		if !ok {
			return nil
		}
		return []domain.Suggestion{
			domain.NewSuggestion(domain.SuggestionRunCommand, next, workflowConfidence, rule.reason, domain.SourceWorkflow),
		}
	}
	return nil
}

// expandTemplate fills placeholders from the original-case command. It
// reports false when a placeholder is needed but the command has no argument.
func expandTemplate(tmpl, cmd string) (string, bool) {
	if !strings.Contains(tmpl, "{") {
		return tmpl, true
	}
	fields := strings.Fields(cmd)
	if len(fields) < 2 {
		return "", false
	}
	lastArg := fields[len(fields)-1]
	if strings.HasPrefix(lastArg, "-") {
		return "", false
	}
	repo := strings.TrimSuffix(path.Base(strings.TrimSuffix(lastArg, "/")), ".git")
	return strings.NewReplacer("{last_arg}", lastArg, "{repo}", repo).Replace(tmpl), true
}
