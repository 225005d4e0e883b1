package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/domain"
	"groundqa/internal/logger"
)

func TestMCP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MCP Suite")
}

type stubService struct {
	answer domain.Answer
	err    error
	asked  []string
}

func (s *stubService) Ask(_ context.Context, q string) (domain.Answer, error) {
	s.asked = append(s.asked, q)
	return s.answer, s.err
}

var _ = Describe("MCP Server", func() {
	var (
		svc    *stubService
		server *Server
		ctx    context.Context
	)

	BeforeEach(func() {
		svc = &stubService{answer: domain.Answer{
			Answer:  "Resposta.",
			Sources: []domain.Source{{Title: "T", URL: "u1", Cited: true}},
		}}
		var err error
		server, err = NewServer(Config{Service: svc, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("NewServer", func() {
		It("returns an error when the service is nil", func() {
			_, err := NewServer(Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("service is required")))
		})

		It("returns an error when the logger is nil", func() {
			_, err := NewServer(Config{Service: svc})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("ask tool", func() {
		It("returns the answer as text and structured output", func() {
			res, out, err := server.handleAsk(ctx, nil, AskInput{Question: "O que é?"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(res.Content).To(HaveLen(1))
			Expect(res.Content[0].(*mcp.TextContent).Text).To(Equal("Resposta."))
			Expect(out).To(Equal(svc.answer))
			Expect(svc.asked).To(Equal([]string{"O que é?"}))
		})

		It("reports failures as tool errors", func() {
			svc.err = domain.ErrInvalidQuestion
			res, _, err := server.handleAsk(ctx, nil, AskInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(res.Content[0].(*mcp.TextContent).Text).To(ContainSubstring("invalid question"))
		})
	})
})
