package vault

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvault/lox/internal/errs"
	"github.com/loxvault/lox/internal/model"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "vault.enc"), nil)
}

func TestFile_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)

	v := model.NewVault()
	v.Services["github"] = model.Credential{Password: "s3cret", Username: "octo", URL: "https://github.com", Notes: "work"}
	v.Services["mail"] = model.Credential{Password: "another"}

	require.NoError(t, f.Save(v, "pass-phrase"))

	got, err := f.Load("pass-phrase")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got.Services["github"].Password)
	assert.Equal(t, "octo", got.Services["github"].Username)
	assert.Equal(t, "https://github.com", got.Services["github"].URL)
	assert.Len(t, got.Services, 2)
	assert.Equal(t, model.SchemaVersion, got.Metadata["version"])
}

func TestFile_Layout(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	require.NoError(t, f.Save(model.NewVault(), "pw"))

	blob, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	// 4-byte big-endian salt length, then the salt, then ciphertext.
	require.Greater(t, len(blob), 4)
	saltLen := binary.BigEndian.Uint32(blob[:4])
	assert.Equal(t, uint32(16), saltLen)
	assert.Greater(t, len(blob), 4+int(saltLen))
}

func TestFile_SaltFreshness(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	v := model.NewVault()
	v.Services["svc"] = model.Credential{Password: "pw"}

	require.NoError(t, f.Save(v, "pw"))
	first, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	require.NoError(t, f.Save(v, "pw"))
	second, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	// Same content and passphrase, but fresh salt means fresh bytes.
	assert.NotEqual(t, first, second)

	got, err := f.Load("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Services["svc"].Password)
}

func TestFile_Load_WrongPassphrase(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	require.NoError(t, f.Save(model.NewVault(), "correct"))

	_, err := f.Load("incorrect")
	require.ErrorIs(t, err, errs.ErrVaultOperation)
	assert.NotErrorIs(t, err, errs.ErrDecrypt, "cipher errors must not leak raw")
	assert.Contains(t, err.Error(), "passphrase may be incorrect or the file is corrupted")
}

func TestFile_Load_CorruptedCiphertext(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	require.NoError(t, f.Save(model.NewVault(), "pw"))

	blob, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	blob = append(blob, []byte("appended garbage")...)
	require.NoError(t, os.WriteFile(f.Path(), blob, 0o600))

	_, err = f.Load("pw")
	require.ErrorIs(t, err, errs.ErrVaultOperation)
}

func TestFile_Load_TruncatedHeader(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.Path()), 0o700))
	require.NoError(t, os.WriteFile(f.Path(), []byte{0, 0}, 0o600))

	_, err := f.Load("pw")
	require.ErrorIs(t, err, errs.ErrVaultOperation)

	// Salt length pointing past the end of the file.
	bad := binary.BigEndian.AppendUint32(nil, 1<<20)
	bad = append(bad, []byte("short")...)
	require.NoError(t, os.WriteFile(f.Path(), bad, 0o600))

	_, err = f.Load("pw")
	require.ErrorIs(t, err, errs.ErrVaultOperation)
}

func TestFile_Load_Missing(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	_, err := f.Load("pw")
	require.ErrorIs(t, err, errs.ErrVaultNotFound)
}

func TestFile_Init(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)

	created, err := f.Init("pw")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, f.Exists())

	// Second init must refuse without erroring.
	created, err = f.Init("pw")
	require.NoError(t, err)
	assert.False(t, created)

	v, err := f.Load("pw")
	require.NoError(t, err)
	assert.Empty(t, v.Services)
	assert.NotEmpty(t, v.Metadata["vault_id"])
}

func TestFile_RawRoundtrip(t *testing.T) {
	t.Parallel()
	src := newTestFile(t)
	dst := newTestFile(t)

	v := model.NewVault()
	v.Services["svc"] = model.Credential{Password: "pw"}
	require.NoError(t, src.Save(v, "pass"))

	blob, err := src.ReadRaw()
	require.NoError(t, err)

	// Simulate a sync pull: replace another vault file wholesale.
	require.NoError(t, dst.WriteRaw(blob))
	got, err := dst.Load("pass")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Services["svc"].Password)
}

func TestFile_ReadRaw_Missing(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	_, err := f.ReadRaw()
	require.ErrorIs(t, err, errs.ErrVaultNotFound)
}

func TestFile_Save_NoTempLeftover(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)
	require.NoError(t, f.Save(model.NewVault(), "pw"))

	entries, err := os.ReadDir(filepath.Dir(f.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(f.Path()), entries[0].Name())
}

func TestFile_DeleteAndInfo(t *testing.T) {
	t.Parallel()
	f := newTestFile(t)

	assert.False(t, f.Delete())
	assert.False(t, f.Info().Exists)

	require.NoError(t, f.Save(model.NewVault(), "pw"))
	info := f.Info()
	assert.True(t, info.Exists)
	assert.Greater(t, info.Size, int64(0))

	assert.True(t, f.Delete())
	assert.False(t, f.Exists())
}
