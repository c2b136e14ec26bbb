package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRedactionYAML contains the embedded default secret-redaction rules.
//
//go:embed defaults/redaction.yaml
var DefaultRedactionYAML []byte

// DefaultGuardrailYAML contains the embedded default guardrail rules.
//
//go:embed defaults/guardrail.yaml
var DefaultGuardrailYAML []byte

// ZshHook is sourced from ~/.zshrc to report finished commands.
//
//go:embed shell/zsh.sh
var ZshHook string

// BashHook is sourced from ~/.bashrc to report finished commands.
//
//go:embed shell/bash.sh
var BashHook string
