package archive

// PasswordSource supplies passwords for encrypted archives. Implementations
// either carry a pre-supplied secret or defer to a prompt invoked at most
// once per archive encountered.
type PasswordSource interface {
	Password(archivePath string) (string, error)
}

// StaticPassword always returns the same secret. An empty value means "no
// password available".
type StaticPassword string

func (p StaticPassword) Password(string) (string, error) {
	return string(p), nil
}

// PromptFunc adapts a callback into a PasswordSource. The extractor calls it
// at most once per encrypted archive.
type PromptFunc func(archivePath string) (string, error)

func (f PromptFunc) Password(archivePath string) (string, error) {
	return f(archivePath)
}
