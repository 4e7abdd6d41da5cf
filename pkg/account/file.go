package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/onedrivefs/onedrivefs/internal/logger"
)

// FileDirectory is a Directory backed by a JSON accounts file.
//
// Accounts are provisioned out of band (by a desktop integration or an
// operator) and read here; Refresh rotates tokens against the Microsoft
// identity platform and writes them back so concurrent short-lived workers
// pick up the newest refresh token.
type FileDirectory struct {
	path     string
	clientID string
	tenant   string
	accounts map[string]Account
}

// fileFormat is the on-disk shape of the accounts file.
type fileFormat struct {
	Accounts []fileAccount `json:"accounts"`
}

type fileAccount struct {
	Name         string   `json:"name"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Scopes       []string `json:"scopes,omitempty"`
}

// NewFileDirectory loads the accounts file at path. A missing file is not
// an error: the directory starts empty and the root listing will offer the
// new-account entry.
func NewFileDirectory(path, clientID, tenant string) (*FileDirectory, error) {
	d := &FileDirectory{
		path:     path,
		clientID: clientID,
		tenant:   tenant,
		accounts: make(map[string]Account),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("accounts file %s does not exist yet, starting empty", path)
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}
	for _, fa := range ff.Accounts {
		if fa.Name == "" {
			continue
		}
		d.accounts[fa.Name] = Account{
			Name:         fa.Name,
			AccessToken:  fa.AccessToken,
			RefreshToken: fa.RefreshToken,
			Scopes:       fa.Scopes,
		}
	}

	logger.Debug("loaded %d account(s) from %s", len(d.accounts), path)
	return d, nil
}

func (d *FileDirectory) Account(name string) Account {
	return d.accounts[name]
}

// Create is not supported by the file directory: there is no interactive
// OAuth broker in the worker process. It returns an invalid account, which
// callers surface as "no accounts configured" guidance.
func (d *FileDirectory) Create(ctx context.Context) (Account, error) {
	return Account{}, nil
}

func (d *FileDirectory) Refresh(ctx context.Context, acc Account) (Account, error) {
	stored, ok := d.accounts[acc.Name]
	if !ok {
		return Account{}, fmt.Errorf("unknown account %q", acc.Name)
	}
	if stored.RefreshToken == "" {
		return Account{}, fmt.Errorf("account %q has no refresh token", acc.Name)
	}

	attempt := uuid.NewString()
	logger.Debug("refreshing token for %s (attempt %s)", acc.Name, attempt)

	conf := &oauth2.Config{
		ClientID: d.clientID,
		Scopes:   stored.Scopes,
		Endpoint: microsoft.AzureADEndpoint(d.tenant),
	}
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: stored.RefreshToken})

	token, err := src.Token()
	if err != nil {
		logger.Warn("token refresh for %s failed (attempt %s): %v", acc.Name, attempt, err)
		return Account{}, refreshError(acc.Name, attempt, err)
	}

	stored.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		stored.RefreshToken = token.RefreshToken
	}
	d.accounts[acc.Name] = stored

	if err := d.save(); err != nil {
		// The refreshed token is still usable this run even if it could
		// not be persisted.
		logger.Warn("failed to persist refreshed credentials for %s: %v", acc.Name, err)
	}

	return stored, nil
}

// refreshError wraps a failed token exchange, carrying the attempt tag so
// the returned error can be matched against the gateway's request logs.
func refreshError(name, attempt string, err error) error {
	return fmt.Errorf("token refresh for %q failed (attempt %s): %w", name, attempt, err)
}

func (d *FileDirectory) Remove(name string) error {
	if _, ok := d.accounts[name]; !ok {
		return fmt.Errorf("unknown account %q", name)
	}
	delete(d.accounts, name)
	return d.save()
}

func (d *FileDirectory) Names() []string {
	names := make([]string, 0, len(d.accounts))
	for name := range d.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// save writes the accounts file atomically (write temp, rename).
func (d *FileDirectory) save() error {
	ff := fileFormat{}
	for _, name := range d.Names() {
		acc := d.accounts[name]
		ff.Accounts = append(ff.Accounts, fileAccount{
			Name:         acc.Name,
			AccessToken:  acc.AccessToken,
			RefreshToken: acc.RefreshToken,
			Scopes:       acc.Scopes,
		})
	}

	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0o700); err != nil {
		return fmt.Errorf("failed to create accounts directory: %w", err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write accounts file: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("failed to replace accounts file: %w", err)
	}
	return nil
}
