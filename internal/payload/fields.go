package payload

// Groq's chat.completions.create parameters.
var groqFields = NewFieldSet(
	"messages",
	"model",
	"frequency_penalty",
	"logit_bias",
	"logprobs",
	"max_tokens",
	"n",
	"presence_penalty",
	"response_format",
	"seed",
	"stop",
	"stream",
	"temperature",
	"top_p",
	"top_logprobs",
	"tool_choice",
	"tools",
	"user",
)

var cerebrasFields = NewFieldSet(
	"messages",
	"model",
	"max_tokens",
	"max_completion_tokens",
	"temperature",
	"top_p",
	"stop",
	"stream",
	"seed",
	"response_format",
	"tools",
	"tool_choice",
	"user",
	"logprobs",
	"top_logprobs",
)

var mistralFields = NewFieldSet(
	"messages",
	"model",
	"max_tokens",
	"temperature",
	"top_p",
	"stop",
	"stream",
	"random_seed",
	"response_format",
	"tools",
	"tool_choice",
	"presence_penalty",
	"frequency_penalty",
	"n",
	"safe_prompt",
)

// OpenRouter accepts the OpenAI set plus its routing and sampler extensions.
var openRouterFields = NewFieldSet(
	"messages",
	"model",
	"frequency_penalty",
	"logit_bias",
	"logprobs",
	"max_tokens",
	"n",
	"presence_penalty",
	"response_format",
	"seed",
	"stop",
	"stream",
	"temperature",
	"top_p",
	"top_logprobs",
	"tool_choice",
	"tools",
	"user",
	"top_k",
	"repetition_penalty",
	"min_p",
	"top_a",
	"transforms",
	"models",
	"route",
	"provider",
)

var huggingFaceFields = NewFieldSet(
	"messages",
	"model",
	"max_tokens",
	"temperature",
	"top_p",
	"stop",
	"stream",
	"seed",
	"frequency_penalty",
	"presence_penalty",
	"response_format",
	"tools",
	"tool_choice",
	"logprobs",
	"top_logprobs",
)

// Gemini fields are reshaped into generateContent form by the client.
var geminiFields = NewFieldSet(
	"model",
	"messages",
	"temperature",
	"top_p",
	"top_k",
	"max_tokens",
	"stop",
	"candidate_count",
	"seed",
	"response_format",
)

var providerFields = map[string]FieldSet{
	"groq":        groqFields,
	"cerebras":    cerebrasFields,
	"mistral":     mistralFields,
	"openrouter":  openRouterFields,
	"huggingface": huggingFaceFields,
	"gemini":      geminiFields,
}
