package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
)

// Completer is the chat-completion surface consumed by the analysis
// services. Implementations make exactly one network call per invocation and
// never retry.
type Completer interface {
	// CompleteObject runs a (system, user) prompt pair and parses the reply
	// as a JSON object.
	CompleteObject(ctx context.Context, system, user string, maxTokens int) (map[string]any, error)
	// CompleteList runs a prompt pair and parses the reply as a JSON array,
	// stringifying each element.
	CompleteList(ctx context.Context, system, user string, maxTokens int) ([]string, error)
}

// Client wraps the Eino OpenAI ChatModel behind the Completer interface.
type Client struct {
	chatModel model.ToolCallingChatModel
	modelName string
}

// NewClient builds a chat model from the configured endpoint.
func NewClient(cfg *config.Config) (*Client, error) {
	klog.V(6).Infof("creating chat model: model=%s, baseURL=%s", cfg.LLM.Model, cfg.LLM.APIURL)

	mc := &openai.ChatModelConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
	}
	if cfg.LLM.APIURL != "" {
		mc.BaseURL = cfg.LLM.APIURL
	}
	if cfg.LLM.MaxTokens > 0 {
		maxTokens := cfg.LLM.MaxTokens
		mc.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(context.Background(), mc)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	return &Client{chatModel: chatModel, modelName: cfg.LLM.Model}, nil
}

func (c *Client) CompleteObject(ctx context.Context, system, user string, maxTokens int) (map[string]any, error) {
	content, err := c.generate(ctx, system, user, maxTokens)
	if err != nil {
		return nil, err
	}
	return ParseObject(content)
}

func (c *Client) CompleteList(ctx context.Context, system, user string, maxTokens int) ([]string, error) {
	content, err := c.generate(ctx, system, user, maxTokens)
	if err != nil {
		return nil, err
	}
	return ParseList(content)
}

func (c *Client) generate(ctx context.Context, system, user string, maxTokens int) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	var opts []model.Option
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	klog.V(6).Infof("LLM request: model=%s, systemLen=%d, userLen=%d", c.modelName, len(system), len(user))
	resp, err := c.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}

	klog.V(6).Infof("LLM response: contentLen=%d", len(resp.Content))
	return resp.Content, nil
}

var (
	openFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closeFence = regexp.MustCompile("\\s*```\\s*$")
)

// StripFences removes a leading ```json fence and a trailing ``` fence, if
// present. The prompts forbid fences but models emit them anyway.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	content = openFence.ReplaceAllString(content, "")
	content = closeFence.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// ParseObject parses fenced-or-plain content as a JSON object.
func ParseObject(content string) (map[string]any, error) {
	cleaned := StripFences(content)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return obj, nil
}

// ParseList parses fenced-or-plain content as a JSON array of strings. A
// non-array JSON value becomes a single-element list, mirroring how loose
// model output is folded rather than rejected.
func ParseList(content string) ([]string, error) {
	cleaned := StripFences(content)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	arr, ok := value.([]any)
	if !ok {
		return []string{stringify(value)}, nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, stringify(item))
	}
	return out, nil
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
