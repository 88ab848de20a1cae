package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paperplanes/pm-tool/internal/models"
)

// GeneratedFiles maps logical artifact names to their local paths.
type GeneratedFiles struct {
	Adminscale string
	PERT       string
	Readme     string
	Contract   string
}

// VaultGenerator writes generated project artifacts into the local
// folder vault. When the vault root is unavailable the files land in a
// temp directory instead so remote mirroring can still proceed.
type VaultGenerator struct {
	vaultPath string
}

func NewVaultGenerator(vaultPath string) *VaultGenerator {
	return &VaultGenerator{vaultPath: vaultPath}
}

// projectsDir is the engagement subtree inside the vault.
func (g *VaultGenerator) projectsDir() string {
	return filepath.Join(g.vaultPath, "20-projects", "21-engagements", "211-active")
}

// CreateProjectStructure creates the project folder plus the five
// ticker-prefixed subfolders and returns the project root.
func (g *VaultGenerator) CreateProjectStructure(project *models.Project) (string, error) {
	ticker := project.Ticker()
	projectFolder := filepath.Join(g.projectsDir(), strings.ToLower(project.ProjectCode))

	folders := []string{projectFolder}
	for _, suffix := range subfolderSuffixes {
		folders = append(folders, filepath.Join(projectFolder, fmt.Sprintf("%s.%s", ticker, suffix)))
	}

	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return "", err
		}
	}

	return projectFolder, nil
}

// SaveProjectFiles writes the adminscale, PERT, contract text and README
// into an existing project folder.
func (g *VaultGenerator) SaveProjectFiles(projectFolder string, project *models.Project, adminscale, pert, contractText string) (*GeneratedFiles, error) {
	ticker := project.Ticker()
	files := &GeneratedFiles{}

	adminscaleFile := filepath.Join(projectFolder,
		fmt.Sprintf("%s.%s.adminscale.md", ticker, strings.ReplaceAll(project.Client, " ", "-")))
	if err := os.WriteFile(adminscaleFile, []byte(adminscale), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write adminscale: %w", err)
	}
	files.Adminscale = adminscaleFile

	pertFile := filepath.Join(projectFolder, fmt.Sprintf("%s.04-project-docs", ticker),
		fmt.Sprintf("%s.PERT_FOR_XMIND.md", ticker))
	if err := os.WriteFile(pertFile, []byte(pert), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write PERT: %w", err)
	}
	files.PERT = pertFile

	if contractText != "" {
		contractFile := filepath.Join(projectFolder, fmt.Sprintf("%s.01-inbox", ticker), "Договор.txt")
		if err := os.WriteFile(contractFile, []byte(contractText), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write contract: %w", err)
		}
		files.Contract = contractFile
	}

	readmeFile := filepath.Join(projectFolder, "README.md")
	readme := g.renderReadme(project, filepath.Base(adminscaleFile), filepath.Base(pertFile))
	if err := os.WriteFile(readmeFile, []byte(readme), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write README: %w", err)
	}
	files.Readme = readmeFile

	return files, nil
}

// Generate creates the project folder and writes all artifacts. Vault
// failures (missing root, permissions) fall back to a temp directory;
// the returned bool reports whether the fallback was taken.
func (g *VaultGenerator) Generate(project *models.Project, adminscale, pert, contractText string) (string, *GeneratedFiles, bool, error) {
	projectFolder, err := g.CreateProjectStructure(project)
	if err == nil {
		files, saveErr := g.SaveProjectFiles(projectFolder, project, adminscale, pert, contractText)
		if saveErr == nil {
			return projectFolder, files, false, nil
		}
		err = saveErr
	}

	// Vault unavailable; keep the artifacts in a temp tree so the
	// remote mirror still has something to upload.
	tempRoot, tempErr := os.MkdirTemp("", fmt.Sprintf("project_%s_", project.Ticker()))
	if tempErr != nil {
		return "", nil, false, fmt.Errorf("vault write failed (%v) and temp fallback failed: %w", err, tempErr)
	}

	fallback := &VaultGenerator{vaultPath: tempRoot}
	projectFolder, err = fallback.CreateProjectStructure(project)
	if err != nil {
		return "", nil, false, fmt.Errorf("temp fallback failed: %w", err)
	}
	files, err := fallback.SaveProjectFiles(projectFolder, project, adminscale, pert, contractText)
	if err != nil {
		return "", nil, false, fmt.Errorf("temp fallback failed: %w", err)
	}

	return projectFolder, files, true, nil
}

func (g *VaultGenerator) renderReadme(project *models.Project, adminscaleName, pertName string) string {
	ticker := project.Ticker()
	groupName := "Левая"
	if project.Group == models.GroupRight {
		groupName = "Правая"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", project.ProjectCode, project.Name)
	fmt.Fprintf(&b, "**Клиент:** %s\n", project.Client)
	fmt.Fprintf(&b, "**Группа:** %s\n", groupName)
	fmt.Fprintf(&b, "**Статус:** 🟢 Setup\n")
	fmt.Fprintf(&b, "**Создан:** %s\n\n", time.Now().Format("2006-01-02"))
	b.WriteString("## Структура проекта\n\n")
	fmt.Fprintf(&b, "- `%s.01-inbox/` — Входящие документы и материалы\n", ticker)
	fmt.Fprintf(&b, "- `%s.02-research/` — Исследования и анализ\n", ticker)
	fmt.Fprintf(&b, "- `%s.03-meetings/` — Заметки со встреч\n", ticker)
	fmt.Fprintf(&b, "- `%s.04-project-docs/` — Проектные документы\n", ticker)
	fmt.Fprintf(&b, "- `%s.05-deliverables/` — Результаты работы\n\n", ticker)
	b.WriteString("## Ключевые документы\n\n")
	fmt.Fprintf(&b, "- [[%s]] — Админшкала проекта\n", adminscaleName)
	fmt.Fprintf(&b, "- [[%s]] — PERT-диаграмма (импорт в xMind)\n\n", pertName)
	b.WriteString("---\nСоздано автоматически через Paper Planes PM Tool\n")
	return b.String()
}
