package intel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Generator produces text from a (system, user) content pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMsg string) (string, error)
}

// Document is one competitor report tracked by the copilot.
type Document struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Company   string `json:"company"`
	SizeBytes int64  `json:"file_size"`
}

// Status describes the copilot's current state.
type Status struct {
	AIEnabled      bool     `json:"ai_enabled"`
	TotalDocuments int      `json:"total_documents"`
	Companies      []string `json:"companies_loaded"`
	DocsDir        string   `json:"docs_dir"`
}

// knownCompanies are filename fragments matched against report names.
var knownCompanies = []string{
	"accenture", "capgemini", "devoteam", "ey-japan", "fis",
	"groupe-one-point", "inetum", "talan", "wavestone",
}

// Copilot tracks competitor report documents grouped by company and answers
// chat questions about them via the generation provider. It is a collaborator
// of the query pipeline, not part of it: nothing here feeds the graph or the
// index.
type Copilot struct {
	generator Generator
	docsDir   string
	documents []Document
	knowledge map[string][]Document
	logger    *zap.Logger
}

// NewCopilot creates a copilot over the given reports directory.
func NewCopilot(docsDir string, generator Generator) *Copilot {
	return &Copilot{
		generator: generator,
		docsDir:   docsDir,
		documents: []Document{},
		knowledge: make(map[string][]Document),
		logger:    logger.Get(),
	}
}

// LoadDocuments scans the reports directory for PDF files and registers each
// one under the company its filename suggests. Returns how many documents
// were loaded; a missing directory loads zero documents and is not an error.
func (c *Copilot) LoadDocuments() (int, error) {
	if _, err := os.Stat(c.docsDir); err != nil {
		c.logger.Warn("Reports directory not found",
			zap.String("dir", c.docsDir),
		)
		return 0, nil
	}

	paths, err := filepath.Glob(filepath.Join(c.docsDir, "*.pdf"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan reports directory: %w", err)
	}
	sort.Strings(paths)

	loaded := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			c.logger.Warn("Skipping unreadable report",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}

		filename := filepath.Base(path)
		company := extractCompanyName(filename)
		doc := Document{
			ID:        uuid.NewString(),
			Filename:  filename,
			Path:      path,
			Company:   company,
			SizeBytes: info.Size(),
		}

		c.documents = append(c.documents, doc)
		c.knowledge[company] = append(c.knowledge[company], doc)
		loaded++

		c.logger.Debug("Report loaded",
			zap.String("filename", filename),
			zap.String("company", company),
		)
	}

	c.logger.Info("Competitor reports loaded",
		zap.Int("documents", loaded),
		zap.String("dir", c.docsDir),
	)
	return loaded, nil
}

// Status reports document counts and the loaded company roster.
func (c *Copilot) Status() Status {
	companies := make([]string, 0, len(c.knowledge))
	for company := range c.knowledge {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	return Status{
		AIEnabled:      c.generator != nil,
		TotalDocuments: len(c.documents),
		Companies:      companies,
		DocsDir:        c.docsDir,
	}
}

// Chat answers a question about the tracked companies. The company roster is
// serialized into the system prompt; the generation provider produces the
// answer.
func (c *Copilot) Chat(ctx context.Context, message string) (string, error) {
	if c.generator == nil {
		return "", fmt.Errorf("generation provider not available")
	}

	var roster []string
	for _, company := range c.Status().Companies {
		roster = append(roster, fmt.Sprintf("%s: %d documents", company, len(c.knowledge[company])))
	}

	systemPrompt := fmt.Sprintf(
		"You are a competitor intelligence expert. You have access to information about the following companies:\n%s\n\nProvide insights about these companies based on the user's question.",
		strings.Join(roster, ", "),
	)

	return c.generator.Generate(ctx, systemPrompt, message)
}

// extractCompanyName guesses the company a report belongs to from its
// filename: a known fragment match first, then the first underscore-separated
// token of the name.
func extractCompanyName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	lower := strings.ToLower(name)

	for _, pattern := range knownCompanies {
		if strings.Contains(lower, pattern) {
			return titleCase(pattern)
		}
	}

	return titleCase(strings.SplitN(name, "_", 2)[0])
}

// titleCase uppercases the first letter of s.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
