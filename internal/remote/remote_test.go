package remote

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/loxvault/lox/internal/errs"
	"github.com/loxvault/lox/internal/model"
	"github.com/loxvault/lox/internal/vault"
)

type fakeStore struct {
	blobs  [][]byte
	putErr error
}

var _ BlobStore = (*fakeStore)(nil)

func (f *fakeStore) PutBlob(_ context.Context, blob []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs = append(f.blobs, append([]byte(nil), blob...))
	return nil
}

func (f *fakeStore) GetLatestBlob(_ context.Context) ([]byte, error) {
	if len(f.blobs) == 0 {
		return nil, errs.ErrNoRemoteVault
	}
	return f.blobs[len(f.blobs)-1], nil
}

type fakeCreds struct {
	rec *model.StoredCredential
}

func (f *fakeCreds) Retrieve() *model.StoredCredential { return f.rec }

func configured() *fakeCreds {
	return &fakeCreds{rec: &model.StoredCredential{
		RoleIdentifier: "arn:aws:iam::123456789012:role/lox-sync",
		AccessKey:      "AK",
		SecretKey:      "SK",
		Region:         "eu-west-1",
	}}
}

func newVaultFile(t *testing.T) *vault.File {
	t.Helper()
	return vault.NewFile(filepath.Join(t.TempDir(), "vault.enc"), nil)
}

func TestService_PushPull_Roundtrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	local := newVaultFile(t)
	v := model.NewVault()
	v.Services["github"] = model.Credential{Password: "pw"}
	if err := local.Save(v, "pass"); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := &fakeStore{}
	if err := NewService(local, store, configured(), nil).Push(ctx); err != nil {
		t.Fatalf("push: %v", err)
	}
	if len(store.blobs) != 1 {
		t.Fatalf("blobs=%d, want 1", len(store.blobs))
	}

	// Pull onto a second machine and decrypt with the same passphrase.
	other := newVaultFile(t)
	if err := NewService(other, store, configured(), nil).Pull(ctx); err != nil {
		t.Fatalf("pull: %v", err)
	}
	got, err := other.Load("pass")
	if err != nil {
		t.Fatalf("load pulled vault: %v", err)
	}
	if got.Services["github"].Password != "pw" {
		t.Fatalf("pulled vault mismatch: %+v", got.Services)
	}
}

func TestService_RequiresCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	local := newVaultFile(t)
	store := &fakeStore{}

	s := NewService(local, store, &fakeCreds{}, nil)
	if err := s.Push(ctx); err == nil {
		t.Fatalf("push without credentials must fail")
	}
	if err := s.Pull(ctx); err == nil {
		t.Fatalf("pull without credentials must fail")
	}
	if len(store.blobs) != 0 {
		t.Fatalf("no outbound call may happen without credentials")
	}
}

func TestService_RejectsExpiredCredentials(t *testing.T) {
	t.Parallel()
	creds := configured()
	creds.rec.Expiry = time.Now().Add(-time.Hour)

	s := NewService(newVaultFile(t), &fakeStore{}, creds, nil)
	if err := s.Push(context.Background()); err == nil {
		t.Fatalf("expired credentials must be rejected")
	}
}

func TestService_Push_NoLocalVault(t *testing.T) {
	t.Parallel()
	s := NewService(newVaultFile(t), &fakeStore{}, configured(), nil)
	if err := s.Push(context.Background()); !errors.Is(err, errs.ErrVaultNotFound) {
		t.Fatalf("want ErrVaultNotFound, got %v", err)
	}
}

func TestService_Pull_EmptyRemote(t *testing.T) {
	t.Parallel()
	s := NewService(newVaultFile(t), &fakeStore{}, configured(), nil)
	if err := s.Pull(context.Background()); !errors.Is(err, errs.ErrNoRemoteVault) {
		t.Fatalf("want ErrNoRemoteVault, got %v", err)
	}
}

func TestDirStore_LatestWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := NewDirStore(filepath.Join(t.TempDir(), "blobs"))

	if _, err := d.GetLatestBlob(ctx); !errors.Is(err, errs.ErrNoRemoteVault) {
		t.Fatalf("empty store: want ErrNoRemoteVault, got %v", err)
	}

	if err := d.PutBlob(ctx, []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(2 * time.Millisecond) // distinct timestamps in file names
	if err := d.PutBlob(ctx, []byte("second")); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := d.GetLatestBlob(ctx)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Fatalf("latest=%q, want %q", got, "second")
	}
}

func TestDirStore_CancelledContext(t *testing.T) {
	t.Parallel()
	d := NewDirStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.PutBlob(ctx, []byte("x")); err == nil {
		t.Fatalf("put with cancelled context must fail")
	}
	if _, err := d.GetLatestBlob(ctx); err == nil {
		t.Fatalf("get with cancelled context must fail")
	}
}
