package analyzer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/wartush/internal/analyzer"
)

var _ = Describe("CheckEndpoint", func() {
	It("accepts the three loopback hosts", func() {
		for _, url := range []string{
			"http://localhost:5050/api/analyze",
			"http://127.0.0.1:5050/api/analyze",
			"http://[::1]:5050/api/analyze",
			"https://localhost/api/analyze",
			"http://localhost",
		} {
			Expect(analyzer.CheckEndpoint(url)).To(Succeed(), "url: %s", url)
		}
	})

	It("rejects remote and link-local hosts", func() {
		for _, url := range []string{
			"http://evil.example.com/api/analyze",
			"http://169.254.169.254/latest/meta-data/",
			"http://10.0.0.1:5050/api/analyze",
			"http://192.168.1.10/api/analyze",
			"http://localhost.attacker.net/api/analyze",
			"http://127.0.0.1.nip.io/api/analyze",
			"http://0.0.0.0:5050/api/analyze",
		} {
			err := analyzer.CheckEndpoint(url)

			Expect(errors.Is(err, analyzer.ErrEndpointNotLoopback)).
				To(BeTrue(), "url: %s", url)
		}
	})

	It("rejects non-http schemes", func() {
		for _, url := range []string{
			"file:///etc/passwd",
			"ftp://localhost/x",
			"gopher://localhost:70/",
			"localhost:5050/api/analyze",
		} {
			err := analyzer.CheckEndpoint(url)

			Expect(errors.Is(err, analyzer.ErrEndpointNotLoopback)).
				To(BeTrue(), "url: %s", url)
		}
	})

	It("rejects unparseable URLs", func() {
		err := analyzer.CheckEndpoint("http://[::1")

		Expect(errors.Is(err, analyzer.ErrEndpointNotLoopback)).To(BeTrue())
	})
})
