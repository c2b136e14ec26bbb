package domain

// ModelDefinition is one AI provider entry from the config file. It is only
// consulted when a failed command has no static fix.
type ModelDefinition struct {
	Name       string          `yaml:"name"`
	Endpoint   string          `yaml:"endpoint"`
	AuthEnvVar string          `yaml:"auth_env_var"`
	OrgEnvVar  string          `yaml:"org_env_var"`
	ModelID    string          `yaml:"model_id"`
	MaxTokens  int             `yaml:"max_tokens"`
	Prompt     []PromptMessage `yaml:"prompt"`
	APIFormat  APIFormat       `yaml:"api_format,omitempty"`
}

// APIFormat describes how requests are shaped and replies parsed. The zero
// value is the OpenAI chat-completions format.
type APIFormat struct {
	AuthHeaderName   string `yaml:"auth_header_name,omitempty"`
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`
	// SystemMessageMode is "inline" or "separate" (top-level system field).
	SystemMessageMode string `yaml:"system_message_mode,omitempty"`
	// ContentWrapper is "standard" or "anthropic" (content block arrays).
	ContentWrapper   string            `yaml:"content_wrapper,omitempty"`
	ResponseJSONPath string            `yaml:"response_json_path,omitempty"`
	ExtraHeaders     map[string]string `yaml:"extra_headers,omitempty"`
}

// PromptMessage is a role/content pair.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	SystemMessageModeInline   = "inline"
	SystemMessageModeSeparate = "separate"

	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	DefaultResponsePath   = "choices[0].message.content"
	AnthropicResponsePath = "content[0].text"
)

// GetAuthHeaderName returns the auth header, Authorization by default.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the key prefix. A custom header with no prefix
// means no prefix at all; otherwise "Bearer " is the default.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix != "" {
		return f.AuthHeaderPrefix
	}
	if f.AuthHeaderName != "" {
		return ""
	}
	return DefaultAuthHeaderPrefix
}

func (f APIFormat) GetSystemMessageMode() string {
	if f.SystemMessageMode == "" {
		return SystemMessageModeInline
	}
	return f.SystemMessageMode
}

func (f APIFormat) GetContentWrapper() string {
	if f.ContentWrapper == "" {
		return ContentWrapperStandard
	}
	return f.ContentWrapper
}

func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}

// IsSystemMessageSeparate reports the Anthropic-style top-level system field.
func (f APIFormat) IsSystemMessageSeparate() bool {
	return f.GetSystemMessageMode() == SystemMessageModeSeparate
}

// IsContentWrapped reports Anthropic-style content block arrays.
func (f APIFormat) IsContentWrapped() bool {
	return f.GetContentWrapper() == ContentWrapperAnthropic
}
