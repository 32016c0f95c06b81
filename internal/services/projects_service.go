package services

import (
	"context"
	"strings"
	"sync"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// ProjectsService handles the project collection. Any Ready session may
// create projects.
type ProjectsService struct {
	provider *providers.ClubAPIProvider

	mu       sync.Mutex
	projects []dtos.Project
}

func NewProjectsService(provider *providers.ClubAPIProvider) *ProjectsService {
	return &ProjectsService{provider: provider}
}

// Load replaces the local project list with the backend's.
func (s *ProjectsService) Load(ctx context.Context) error {
	projects, err := s.provider.GetProjects(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns a snapshot of the project list.
func (s *ProjectsService) Projects() []dtos.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Get fetches one project by ID straight from the backend.
func (s *ProjectsService) Get(ctx context.Context, projectID string) (*dtos.Project, error) {
	return s.provider.GetProject(ctx, projectID)
}

// Create creates a project and reloads the list.
func (s *ProjectsService) Create(ctx context.Context, name, description string, techStack []string, githubURL *string) (*dtos.Project, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, providers.NewValidationError(constants.MsgMissingFields)
	}

	project, err := s.provider.CreateProject(ctx, dtos.ProjectCreate{
		Name:        name,
		Description: description,
		TechStack:   techStack,
		GithubURL:   githubURL,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Load(ctx); err != nil {
		// Creation succeeded; the stale view repairs on the next load.
		logging.Warn("Project reload after create failed", "project_id", project.ID, "error", err.Error())
	}
	return project, nil
}
