package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paperplanes/pm-tool/internal/models"
)

// RemoteFolder identifies a folder or file in the remote store together
// with its user-facing link.
type RemoteFolder struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// FolderStore is the remote folder/file store the generated artifacts are
// mirrored into. GetOrCreateFolder must be idempotent: repeated calls
// with the same name and parent return the existing folder.
type FolderStore interface {
	FindFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error)
	CreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error)
	GetOrCreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error)
	UploadFile(ctx context.Context, localPath, parentID, name string) (*RemoteFolder, error)
}

// ProjectFolderStructure holds the remote folders created for one project.
type ProjectFolderStructure struct {
	Root          *RemoteFolder
	GroupFolder   *RemoteFolder
	ProjectFolder *RemoteFolder
	Subfolders    map[string]*RemoteFolder
}

const engagementRootName = "04-Engagement"

// subfolderSuffixes are the five fixed project subfolders, prefixed with
// the project ticker ("ACM.01-inbox" … "ACM.05-deliverables").
var subfolderSuffixes = []string{
	"01-inbox",
	"02-research",
	"03-meetings",
	"04-project-docs",
	"05-deliverables",
}

// BuildProjectFolderStructure creates the fixed remote hierarchy for a
// project: root > group folder > "<CODE> <client>" > five ticker-prefixed
// subfolders. Root and group lookups are get-or-create so repeated
// project creations reuse them.
func BuildProjectFolderStructure(ctx context.Context, store FolderStore, project *models.Project) (*ProjectFolderStructure, error) {
	root, err := store.GetOrCreateFolder(ctx, engagementRootName, "")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare root folder: %w", err)
	}

	groupName := "Левая группа"
	if project.Group == models.GroupRight {
		groupName = "Правая группа"
	}
	groupFolder, err := store.GetOrCreateFolder(ctx, groupName, root.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare group folder: %w", err)
	}

	projectFolderName := fmt.Sprintf("%s %s", strings.ToUpper(project.ProjectCode), project.Client)
	projectFolder, err := store.GetOrCreateFolder(ctx, projectFolderName, groupFolder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create project folder: %w", err)
	}

	ticker := project.Ticker()
	subfolders := make(map[string]*RemoteFolder, len(subfolderSuffixes))
	for _, suffix := range subfolderSuffixes {
		name := fmt.Sprintf("%s.%s", ticker, suffix)
		folder, err := store.GetOrCreateFolder(ctx, name, projectFolder.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create subfolder %s: %w", name, err)
		}
		subfolders[suffix] = folder
	}

	return &ProjectFolderStructure{
		Root:          root,
		GroupFolder:   groupFolder,
		ProjectFolder: projectFolder,
		Subfolders:    subfolders,
	}, nil
}

// DriveStore is a FolderStore over the Google Drive v3 REST API. The
// corpus carries no Drive SDK, so the three endpoints in use are called
// directly.
type DriveStore struct {
	httpClient  *http.Client
	accessToken string
	rootID      string
	baseURL     string
	uploadURL   string
}

func NewDriveStore(accessToken, rootID string) *DriveStore {
	return &DriveStore{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		accessToken: accessToken,
		rootID:      rootID,
		baseURL:     "https://www.googleapis.com/drive/v3",
		uploadURL:   "https://www.googleapis.com/upload/drive/v3",
	}
}

const driveFolderMIME = "application/vnd.google-apps.folder"

type driveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

type driveFileList struct {
	Files []driveFile `json:"files"`
}

func (s *DriveStore) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("drive API returned %d: %s", resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FindFolder looks a folder up by name under a parent. Returns nil when
// no match exists.
func (s *DriveStore) FindFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	if parentID == "" {
		parentID = s.rootID
	}

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		strings.ReplaceAll(name, "'", `\'`), driveFolderMIME)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "files(id, name, webViewLink)")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/files?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var list driveFileList
	if err := s.do(req, &list); err != nil {
		return nil, fmt.Errorf("failed to find folder %q: %w", name, err)
	}

	if len(list.Files) == 0 {
		return nil, nil
	}
	return &RemoteFolder{ID: list.Files[0].ID, URL: list.Files[0].WebViewLink}, nil
}

// CreateFolder creates a folder under a parent.
func (s *DriveStore) CreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	if parentID == "" {
		parentID = s.rootID
	}

	metadata := map[string]interface{}{
		"name":     name,
		"mimeType": driveFolderMIME,
	}
	if parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	body, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/files?fields=id,webViewLink", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created driveFile
	if err := s.do(req, &created); err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", name, err)
	}

	return &RemoteFolder{ID: created.ID, URL: created.WebViewLink}, nil
}

// GetOrCreateFolder returns the existing folder by name under parent, or
// creates it. Never creates duplicates on repeated calls.
func (s *DriveStore) GetOrCreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	existing, err := s.FindFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateFolder(ctx, name, parentID)
}

// UploadFile uploads a local file into a remote folder using a multipart
// upload.
func (s *DriveStore) UploadFile(ctx context.Context, localPath, parentID, name string) (*RemoteFolder, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	if name == "" {
		name = filepath.Base(localPath)
	}

	metadata := map[string]interface{}{
		"name":    name,
		"parents": []string{parentID},
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := make(map[string][]string)
	metaHeader["Content-Type"] = []string{"application/json; charset=UTF-8"}
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	if _, err := metaPart.Write(metadataJSON); err != nil {
		return nil, err
	}

	contentHeader := make(map[string][]string)
	contentHeader["Content-Type"] = []string{mimeTypeFor(localPath)}
	contentPart, err := writer.CreatePart(contentHeader)
	if err != nil {
		return nil, err
	}
	if _, err := contentPart.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.uploadURL+"/files?uploadType=multipart&fields=id,webViewLink", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	var uploaded driveFile
	if err := s.do(req, &uploaded); err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", name, err)
	}

	return &RemoteFolder{ID: uploaded.ID, URL: uploaded.WebViewLink}, nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
