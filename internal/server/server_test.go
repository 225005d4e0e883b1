package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/domain"
	"groundqa/internal/logger"
	"groundqa/internal/service"
)

func TestServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

type fakeService struct {
	answer    domain.Answer
	err       error
	questions []string
}

func (f *fakeService) Ask(_ context.Context, q string) (domain.Answer, error) {
	f.questions = append(f.questions, q)
	return f.answer, f.err
}

func (f *fakeService) Status() service.Status {
	return service.Status{State: "ready", Documents: 3, Usable: 2}
}

var _ = Describe("Server", func() {
	var (
		svc    *fakeService
		server *Server
	)

	BeforeEach(func() {
		svc = &fakeService{answer: domain.Answer{
			Answer:  "Sim.",
			Sources: []domain.Source{{Title: "T", URL: "u1", Cited: true}},
		}}
		server = NewServer(Config{ListenAddr: ":0"}, svc, logger.Nop())
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decodeError := func(resp *http.Response) string {
		var body ErrorResponse
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		return body.Error
	}

	Describe("POST /api/ask", func() {
		It("returns the answer and sources", func() {
			resp := post(`{"question":"O que é alpha?"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get(requestIDHeader)).NotTo(BeEmpty())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(MatchJSON(`{"answer":"Sim.","sources":[{"title":"T","url":"u1","cited":true}]}`))
			Expect(svc.questions).To(Equal([]string{"O que é alpha?"}))
		})

		It("keeps a caller supplied request id", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"q"}`))
			req.Header.Set(requestIDHeader, "abc-123")
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get(requestIDHeader)).To(Equal("abc-123"))
		})

		It("maps invalid questions to 400", func() {
			svc.err = domain.ErrInvalidQuestion
			resp := post(`{"question":"   "}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(decodeError(resp)).To(Equal("Pergunta vazia"))
		})

		It("rejects a non-string question without calling the service", func() {
			resp := post(`{"question":42}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(decodeError(resp)).To(Equal("Pergunta vazia"))
			Expect(svc.questions).To(BeEmpty())
		})

		It("maps an unavailable corpus to 500", func() {
			svc.err = fmt.Errorf("%w: no documents indexed", domain.ErrCorpusUnavailable)
			resp := post(`{"question":"q"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(decodeError(resp)).To(Equal("Sem documentos indexados"))
		})

		It("maps provider failures to 500 with the error message", func() {
			svc.err = fmt.Errorf("failed to embed question: %w", domain.ErrProvider)
			resp := post(`{"question":"q"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(decodeError(resp)).To(ContainSubstring("provider"))
		})
	})

	It("rejects other methods on /api/ask with 405", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusMethodNotAllowed))
		Expect(decodeError(resp)).To(Equal("Method not allowed (use POST)"))
	})

	It("answers CORS preflight", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
		req.Header.Set("Origin", "https://example.org")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(Equal("POST,OPTIONS"))
		Expect(resp.Header.Get("Access-Control-Allow-Headers")).To(Equal("Content-Type"))
	})

	It("reports corpus status", func() {
		resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/status", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		var st service.Status
		Expect(json.NewDecoder(resp.Body).Decode(&st)).To(Succeed())
		Expect(st.State).To(Equal("ready"))
		Expect(st.Usable).To(Equal(2))
	})

	It("responds to ping", func() {
		resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
	})

	It("mounts an MCP handler when configured", func() {
		mcpHit := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			mcpHit = true
			w.WriteHeader(http.StatusAccepted)
		})
		withMCP := NewServer(Config{MCPHandler: handler}, svc, logger.Nop())

		resp, err := withMCP.app.Test(httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}")))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
		Expect(mcpHit).To(BeTrue())

		resp, err = server.app.Test(httptest.NewRequest(http.MethodPost, "/mcp", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
	})
})
