package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"officina/internal/repository"

	"github.com/google/uuid"
)

var codeSuffixPattern = regexp.MustCompile(`\.\d+$`)

// CodeGenerator disambiguates task codes within a site by appending a
// numeric ".N" suffix.
type CodeGenerator struct {
	tasks *repository.TaskRepository
}

func NewCodeGenerator(tasks *repository.TaskRepository) *CodeGenerator {
	return &CodeGenerator{tasks: tasks}
}

// Generate returns base unchanged when it is unused in the site, otherwise
// the first free "base.N". Existing codes are fetched with a single
// pattern query and probed in memory, case-insensitively. On a lookup
// failure it degrades to returning base and lets the store's uniqueness
// constraint surface any conflict.
func (g *CodeGenerator) Generate(ctx context.Context, siteID uuid.UUID, base string) string {
	codes, err := g.tasks.CodesMatching(ctx, siteID, base)
	if err != nil {
		log.Printf("⚠️  Unique code lookup failed, keeping %q: %v", base, err)
		return base
	}

	used := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		used[strings.ToLower(code)] = struct{}{}
	}

	if _, taken := used[strings.ToLower(base)]; !taken {
		return base
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d", base, n)
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			return candidate
		}
	}
}

// BaseCode strips the numeric disambiguation suffix from a code.
// Idempotent: applying it to its own result changes nothing.
func BaseCode(code string) string {
	for {
		stripped := codeSuffixPattern.ReplaceAllString(code, "")
		if stripped == code {
			return code
		}
		code = stripped
	}
}
