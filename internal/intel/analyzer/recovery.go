package analyzer

import (
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
)

const recoveryConfidence = 0.8

type recoveryRule struct {
	keyword string
	remedy  string
	reason  string
}

// recoveryRules is scanned in order; the first keyword found wins.
var recoveryRules = []recoveryRule{
	{keyword: "cannot connect to the docker daemon", remedy: "docker info", reason: "Check that the Docker daemon is running"},
	{keyword: "permission denied", remedy: "ls -l", reason: "Check ownership and permissions of the files here"},
	{keyword: "command not found", remedy: "echo $PATH", reason: "Check that the tool is installed and on PATH"},
	{keyword: "not a git repository", remedy: "git init", reason: "Initialise a repository here"},
	{keyword: "merge conflict", remedy: "git status", reason: "List the conflicting files"},
	{keyword: "address already in use", remedy: "lsof -i -P -n | grep LISTEN", reason: "Find the process holding the port"},
	{keyword: "port is already allocated", remedy: "docker ps", reason: "Find the container holding the port"},
	{keyword: "cannot find module", remedy: "npm install", reason: "Install missing Node dependencies"},
	{keyword: "modulenotfounderror", remedy: "pip install -r requirements.txt", reason: "Install missing Python dependencies"},
	{keyword: "no space left on device", remedy: "df -h", reason: "Check free disk space"},
	{keyword: "could not resolve host", remedy: "ping -c 1 8.8.8.8", reason: "Check network connectivity"},
	{keyword: "connection refused", remedy: "ss -tlnp", reason: "Check which services are listening"},
	{keyword: "no such file or directory", remedy: "ls -la", reason: "Inspect the current directory"},
}

// ErrorRecovery suggests a remedy for the most recent error text.
func ErrorRecovery(in Input) []domain.Suggestion {
	text := strings.ToLower(in.Context.RecentError)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, rule := range recoveryRules {
		if strings.Contains(text, rule.keyword) {
			return []domain.Suggestion{
				domain.NewSuggestion(domain.SuggestionRunCommand, rule.remedy, recoveryConfidence, rule.reason, domain.SourceErrorRecovery),
			}
		}
	}
	return nil
}
