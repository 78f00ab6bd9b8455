package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// AliasStore is the CLI's local alias/secret store (user@host shortcuts and
// their saved sudo passwords), kept from the teacher's CLI workflow. It is
// unrelated to the server-side Config in config.go, which governs the HTTP
// control plane.
type AliasStore struct {
	path    string
	Aliases map[string]string `json:"aliases"`
	Secrets map[string]string `json:"secrets"`
}

// New loads (or initializes) the alias store from ~/.vps-init/config.json.
func New() *AliasStore {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	path := filepath.Join(dir, ".vps-init", "config.json")

	cfg := &AliasStore{
		path:    path,
		Aliases: map[string]string{},
		Secrets: map[string]string{},
	}
	cfg.load()
	return cfg
}

func (c *AliasStore) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, c)
}

func (c *AliasStore) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

func (c *AliasStore) SetAlias(name, connection string) error {
	c.Aliases[name] = connection
	return c.save()
}

func (c *AliasStore) RemoveAlias(name string) error {
	delete(c.Aliases, name)
	delete(c.Secrets, name)
	return c.save()
}

func (c *AliasStore) GetAlias(name string) (string, bool) {
	v, ok := c.Aliases[name]
	return v, ok
}

func (c *AliasStore) GetAliases() map[string]string {
	return c.Aliases
}

func (c *AliasStore) SetSecret(name, secret string) error {
	c.Secrets[name] = secret
	return c.save()
}

func (c *AliasStore) GetSecret(name string) (string, bool) {
	v, ok := c.Secrets[name]
	return v, ok
}

// ResolveTarget expands an alias to its user@host[:port] form; any string
// already containing "@" is returned unchanged.
func (c *AliasStore) ResolveTarget(target string) string {
	if strings.Contains(target, "@") {
		return target
	}
	if v, ok := c.Aliases[target]; ok {
		return v
	}
	return target
}
