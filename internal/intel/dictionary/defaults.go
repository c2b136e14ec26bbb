package dictionary

// defaultCommands is ordered; earlier entries win edit-distance ties.
var defaultCommands = []string{
	"git", "ls", "cd", "pwd", "cat", "cp", "mv", "rm", "mkdir", "rmdir",
	"touch", "echo", "grep", "find", "sed", "awk", "head", "tail", "less",
	"chmod", "chown", "ps", "kill", "top", "htop", "df", "du", "tar",
	"unzip", "curl", "wget", "ssh", "scp", "rsync", "ping", "make", "cmake",
	"go", "cargo", "rustc", "npm", "npx", "yarn", "pnpm", "node", "python",
	"python3", "pip", "pip3", "docker", "kubectl", "helm", "terraform",
	"brew", "apt", "sudo", "vim", "nvim", "nano", "code", "man", "which",
	"history", "clear", "exit", "export", "source", "env", "diff", "sort",
	"uniq", "wc", "xargs", "tmux", "jq", "java", "mvn", "gradle", "ruby",
	"bundle", "systemctl", "journalctl", "lsof", "netstat", "whoami",
}

var defaultTypos = map[string]string{
	"gti":     "git",
	"sl":      "ls",
	"cd..":    "cd ..",
	"gerp":    "grep",
	"grpe":    "grep",
	"cta":     "cat",
	"mkdri":   "mkdir",
	"claer":   "clear",
	"clera":   "clear",
	"ehco":    "echo",
	"suod":    "sudo",
	"sduo":    "sudo",
	"pyhton":  "python",
	"pytohn":  "python",
	"dokcer":  "docker",
	"docekr":  "docker",
	"kubeclt": "kubectl",
	"kubctl":  "kubectl",
	"mkae":    "make",
	"amke":    "make",
	"tial":    "tail",
	"haed":    "head",
	"crul":    "curl",
	"brwe":    "brew",
}
