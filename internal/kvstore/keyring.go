package kvstore

import (
	"context"
	"errors"
	"fmt"

	zkr "github.com/zalando/go-keyring"
)

// Keyring keeps values in the OS keychain under one service name. It is
// meant for the sync scope, where the webhook URL acts as a credential.
type Keyring struct {
	service string
}

func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

func (k *Keyring) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := zkr.Get(k.service, key)
	if errors.Is(err, zkr.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("keychain get %s: %w", key, err)
	}
	return []byte(v), true, nil
}

func (k *Keyring) Set(_ context.Context, key string, value []byte) error {
	if err := zkr.Set(k.service, key, string(value)); err != nil {
		return fmt.Errorf("keychain set %s: %w", key, err)
	}
	return nil
}

func (k *Keyring) Delete(_ context.Context, key string) error {
	err := zkr.Delete(k.service, key)
	if err != nil && !errors.Is(err, zkr.ErrNotFound) {
		return fmt.Errorf("keychain delete %s: %w", key, err)
	}
	return nil
}

// KeyringAvailable probes the keychain with a write/delete cycle.
func KeyringAvailable(service string) bool {
	probe := service + "-probe"
	if err := zkr.Set(probe, "probe", "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(probe, "probe")
	return true
}
