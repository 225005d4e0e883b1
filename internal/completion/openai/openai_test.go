package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/completion/openai"
	"groundqa/internal/domain"
)

func TestOpenAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAI Completer Suite")
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		status   int
		reply    string
		received chatRequest
	)

	BeforeEach(func() {
		status = http.StatusOK
		received = chatRequest{}
		reply = `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Resposta.\n\nFontes:\n- u1"}}]}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		DeferCleanup(server.Close)
		GinkgoT().Setenv("GROUNDQA_TEST_KEY", "test-key")
	})

	newClient := func() *openai.Client {
		c, err := openai.NewClient(openai.Config{BaseURL: server.URL + "/v1", APIKeyEnv: "GROUNDQA_TEST_KEY"})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("requires an API key", func() {
		_, err := openai.NewClient(openai.Config{APIKeyEnv: "GROUNDQA_UNSET_KEY"})
		Expect(err).To(HaveOccurred())
	})

	It("sends system and user prompts with the sampling settings", func() {
		out, err := newClient().Complete(context.Background(), domain.CompletionRequest{
			System:      "sys",
			User:        "usr",
			Temperature: 0,
			MaxTokens:   600,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Resposta.\n\nFontes:\n- u1"))

		Expect(received.Model).To(Equal(openai.DefaultModel))
		Expect(received.Temperature).To(BeZero())
		Expect(received.MaxTokens).To(Equal(600))
		Expect(received.Messages).To(HaveLen(2))
		Expect(received.Messages[0].Role).To(Equal("system"))
		Expect(received.Messages[0].Content).To(Equal("sys"))
		Expect(received.Messages[1].Role).To(Equal("user"))
		Expect(received.Messages[1].Content).To(Equal("usr"))
	})

	It("wraps API failures as provider errors", func() {
		status = http.StatusUnauthorized
		reply = `{"error":{"message":"bad key","type":"invalid_request_error"}}`

		_, err := newClient().Complete(context.Background(), domain.CompletionRequest{System: "s", User: "u"})
		Expect(err).To(MatchError(domain.ErrProvider))
	})

	It("rejects a response without choices", func() {
		reply = `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`

		_, err := newClient().Complete(context.Background(), domain.CompletionRequest{System: "s", User: "u"})
		Expect(err).To(MatchError(ContainSubstring("no choices")))
	})
})
