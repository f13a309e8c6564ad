package ui

// Prompter defines interface for interactive input
type Prompter interface {
	ViewerLogin() (string, error)
	Repositories() ([]string, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// ViewerLogin prompts for the GitHub username to analyze
func (p *DefaultPrompter) ViewerLogin() (string, error) {
	return PromptViewerLogin()
}

// Repositories prompts for the repositories to analyze
func (p *DefaultPrompter) Repositories() ([]string, error) {
	return PromptRepositories()
}

// MockPrompter for testing
type MockPrompter struct {
	Viewer      string
	ViewerError error

	Repos      []string
	ReposError error

	// Call tracking
	ViewerLoginCalled  bool
	RepositoriesCalled bool
}

// ViewerLogin mocks the username prompt
func (m *MockPrompter) ViewerLogin() (string, error) {
	m.ViewerLoginCalled = true
	return m.Viewer, m.ViewerError
}

// Repositories mocks the repository prompt
func (m *MockPrompter) Repositories() ([]string, error) {
	m.RepositoriesCalled = true
	return m.Repos, m.ReposError
}
