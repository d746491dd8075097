// Package vault implements the encrypted on-disk vault container and CRUD
// operations over the decrypted secret collection.
package vault

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/crypto"
	"github.com/loxvault/lox/internal/errs"
	"github.com/loxvault/lox/internal/model"
)

// saltLenHeader is the size of the big-endian salt-length prefix. The salt is
// fixed at 16 bytes today but the length is written anyway, so the layout
// stays forward-compatible with variable-length salts.
const saltLenHeader = 4

// File is the on-disk vault container:
//
//	[4-byte big-endian salt length][salt][authenticated ciphertext]
//
// The ciphertext decrypts to the UTF-8 JSON encoding of model.Vault. This
// layout is a compatibility contract with existing vault files.
type File struct {
	path   string
	logger *zap.Logger
}

// NewFile constructs a vault file at path. A nil logger disables logging.
func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, logger: logger}
}

// Path returns the vault file location.
func (f *File) Path() string { return f.path }

// Exists reports whether the vault file is present.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Init creates a new empty vault. It refuses to overwrite an existing file and
// reports that as (false, nil): an existing vault is an expected outcome, not
// an error.
func (f *File) Init(passphrase string) (bool, error) {
	if f.Exists() {
		f.logger.Warn("vault already exists", zap.String("path", f.path))
		return false, nil
	}
	if err := f.Save(model.NewVault(), passphrase); err != nil {
		return false, err
	}
	return true, nil
}

// Save encrypts and writes the vault. A fresh salt is derived on every save,
// so ciphertext and salt are never reused across writes even under an
// unchanged passphrase. The file is written to a temporary path and renamed
// into place so an interrupted save cannot leave a half-written vault.
func (f *File) Save(v *model.Vault, passphrase string) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode vault: %v", errs.ErrVaultOperation, err)
	}

	key, salt, err := crypto.DeriveKey(passphrase, nil)
	if err != nil {
		return fmt.Errorf("%w: derive key: %v", errs.ErrVaultOperation, err)
	}
	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("%w: encrypt vault: %v", errs.ErrVaultOperation, err)
	}

	blob := make([]byte, 0, saltLenHeader+len(salt)+len(ciphertext))
	blob = binary.BigEndian.AppendUint32(blob, uint32(len(salt)))
	blob = append(blob, salt...)
	blob = append(blob, ciphertext...)

	if err := f.writeAtomic(blob); err != nil {
		return fmt.Errorf("%w: write vault: %v", errs.ErrVaultOperation, err)
	}
	f.logger.Info("vault saved", zap.String("path", f.path), zap.Int("bytes", len(blob)))
	return nil
}

// Load reads and decrypts the vault. A missing file fails with
// errs.ErrVaultNotFound. Any decryption or parse failure is reported as
// errs.ErrVaultOperation without claiming a root cause: a wrong passphrase and
// a corrupted file are indistinguishable at this layer.
func (f *File) Load(passphrase string) (*model.Vault, error) {
	blob, err := f.ReadRaw()
	if err != nil {
		return nil, err
	}

	if len(blob) < saltLenHeader {
		return nil, corruptErr()
	}
	saltLen := binary.BigEndian.Uint32(blob[:saltLenHeader])
	if int(saltLen) > len(blob)-saltLenHeader {
		return nil, corruptErr()
	}
	salt := blob[saltLenHeader : saltLenHeader+int(saltLen)]
	ciphertext := blob[saltLenHeader+int(saltLen):]

	key, _, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: derive key: %v", errs.ErrVaultOperation, err)
	}
	plaintext, err := crypto.Decrypt(ciphertext, key)
	if err != nil {
		return nil, corruptErr()
	}

	var v model.Vault
	if err := json.Unmarshal(plaintext, &v); err != nil {
		return nil, corruptErr()
	}
	if v.Services == nil {
		v.Services = make(map[string]model.Credential)
	}
	f.logger.Info("vault loaded", zap.String("path", f.path), zap.Int("services", len(v.Services)))
	return &v, nil
}

// ReadRaw returns the entire encrypted blob, for sync upload.
func (f *File) ReadRaw() ([]byte, error) {
	blob, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %q: initialize first", errs.ErrVaultNotFound, f.path)
		}
		return nil, fmt.Errorf("%w: read vault file: %v", errs.ErrVaultOperation, err)
	}
	return blob, nil
}

// WriteRaw replaces the local vault file with an encrypted blob pulled from
// the remote store. The blob is written as-is; it is validated only on the
// next Load.
func (f *File) WriteRaw(blob []byte) error {
	if err := f.writeAtomic(blob); err != nil {
		return fmt.Errorf("%w: replace vault file: %v", errs.ErrVaultOperation, err)
	}
	f.logger.Info("vault replaced from remote", zap.String("path", f.path), zap.Int("bytes", len(blob)))
	return nil
}

// Delete removes the vault file. Returns false when no file existed or the
// removal failed.
func (f *File) Delete() bool {
	if !f.Exists() {
		return false
	}
	if err := os.Remove(f.path); err != nil {
		f.logger.Error("delete vault", zap.Error(err))
		return false
	}
	f.logger.Info("vault deleted", zap.String("path", f.path))
	return true
}

// Info describes the vault file for display purposes.
type Info struct {
	Path     string
	Exists   bool
	Size     int64
	Modified time.Time
}

// Info returns file-level information about the vault.
func (f *File) Info() Info {
	info := Info{Path: f.path}
	st, err := os.Stat(f.path)
	if err != nil {
		return info
	}
	info.Exists = true
	info.Size = st.Size()
	info.Modified = st.ModTime()
	return info
}

// writeAtomic writes blob to a temp file in the vault directory and renames it
// over the target path.
func (f *File) writeAtomic(blob []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func corruptErr() error {
	return fmt.Errorf("%w: the passphrase may be incorrect or the file is corrupted", errs.ErrVaultOperation)
}
