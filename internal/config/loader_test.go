package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/wartush/internal/analyzer"
	internalconfig "github.com/smykla-skalski/wartush/internal/config"
	"github.com/smykla-skalski/wartush/pkg/config"
)

var _ = Describe("Loader", func() {
	var homeDir string

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
	})

	writeGlobalConfig := func(content string) {
		dir := filepath.Join(homeDir, internalconfig.GlobalConfigDir)
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		Expect(os.WriteFile(
			filepath.Join(dir, internalconfig.GlobalConfigFile),
			[]byte(content),
			0o600,
		)).To(Succeed())
	}

	It("applies defaults when nothing else is configured", func() {
		l := internalconfig.NewLoaderWithHome(homeDir)

		cfg, err := l.Load(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Analyzer.URL).To(Equal(analyzer.DefaultEndpoint))
		Expect(cfg.Analyzer.APIKey).To(BeEmpty())
		Expect(cfg.Analyzer.Timeout.Std()).To(Equal(30 * time.Second))
		Expect(cfg.Log.File).To(Equal(
			filepath.Join(homeDir, internalconfig.GlobalConfigDir, "hooks.log"),
		))
		Expect(cfg.Log.Debug).To(BeFalse())
	})

	It("loads the global TOML file over defaults", func() {
		writeGlobalConfig(`
[analyzer]
url = "http://127.0.0.1:6060/api/analyze"
api_key = "from-toml"
timeout = "5s"

[log]
debug = true
`)

		cfg, err := internalconfig.NewLoaderWithHome(homeDir).Load(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Analyzer.URL).To(Equal("http://127.0.0.1:6060/api/analyze"))
		Expect(cfg.Analyzer.APIKey).To(Equal("from-toml"))
		Expect(cfg.Analyzer.Timeout.Std()).To(Equal(5 * time.Second))
		Expect(cfg.Log.Debug).To(BeTrue())
	})

	It("rejects a malformed global TOML file", func() {
		writeGlobalConfig(`[analyzer`)

		_, err := internalconfig.NewLoaderWithHome(homeDir).Load(nil)

		Expect(errors.Is(err, internalconfig.ErrInvalidTOML)).To(BeTrue())
	})

	It("honors the legacy analyzer environment variables", func() {
		GinkgoT().Setenv(internalconfig.LegacyURLEnv, "http://localhost:7070/api/analyze")
		GinkgoT().Setenv(internalconfig.LegacyAPIKeyEnv, "legacy-key")

		cfg, err := internalconfig.NewLoaderWithHome(homeDir).Load(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Analyzer.URL).To(Equal("http://localhost:7070/api/analyze"))
		Expect(cfg.Analyzer.APIKey).To(Equal("legacy-key"))
	})

	It("prefers WARTUSH_ variables over legacy and TOML", func() {
		writeGlobalConfig(`
[analyzer]
url = "http://localhost:6060/api/analyze"
`)
		GinkgoT().Setenv(internalconfig.LegacyURLEnv, "http://localhost:7070/api/analyze")
		GinkgoT().Setenv("WARTUSH_ANALYZER_URL", "http://localhost:8080/api/analyze")
		GinkgoT().Setenv("WARTUSH_ANALYZER_API_KEY", "env-key")

		cfg, err := internalconfig.NewLoaderWithHome(homeDir).Load(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Analyzer.URL).To(Equal("http://localhost:8080/api/analyze"))
		Expect(cfg.Analyzer.APIKey).To(Equal("env-key"))
	})

	It("gives CLI flags the highest precedence", func() {
		GinkgoT().Setenv("WARTUSH_ANALYZER_URL", "http://localhost:8080/api/analyze")

		cfg, err := internalconfig.NewLoaderWithHome(homeDir).Load(map[string]any{
			"analyzer.url": "http://localhost:9090/api/analyze",
			"log.trace":    true,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Analyzer.URL).To(Equal("http://localhost:9090/api/analyze"))
		Expect(cfg.Log.Trace).To(BeTrue())
	})

	It("rejects a negative timeout from TOML", func() {
		writeGlobalConfig(`
[analyzer]
timeout = "-5s"
`)

		_, err := internalconfig.NewLoaderWithHome(homeDir).Load(nil)

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {
	It("rejects a nil config", func() {
		Expect(errors.Is(
			internalconfig.Validate(nil), internalconfig.ErrInvalidConfig,
		)).To(BeTrue())
	})

	It("rejects an empty analyzer URL", func() {
		err := internalconfig.Validate(&config.Config{
			Analyzer: &config.AnalyzerConfig{URL: ""},
		})

		Expect(errors.Is(err, internalconfig.ErrEmptyValue)).To(BeTrue())
	})

	It("accepts a well-formed config", func() {
		err := internalconfig.Validate(&config.Config{
			Analyzer: &config.AnalyzerConfig{
				URL:     analyzer.DefaultEndpoint,
				Timeout: config.Duration(30 * time.Second),
			},
		})

		Expect(err).NotTo(HaveOccurred())
	})
})
