package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeProbe = `{"streams":[{"codec_type":"video","width":16,"height":16,"r_frame_rate":"25/1"},{"codec_type":"audio"}]}`

// fakeMedia emulates ffmpeg with a trivial container: a "video" file holds
// the path of a directory of numbered PNG frames.
type fakeMedia struct {
	root string
}

func (m *fakeMedia) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if name == "ffprobe" {
		return []byte(fakeProbe), nil
	}

	inputs := argValues(args, "-i")
	out := args[len(args)-1]

	if hasFlag(args, "-vsync") {
		src, err := os.ReadFile(inputs[0])
		if err != nil {
			return nil, err
		}
		return nil, copyFrames(string(src), func(i int) string { return fmt.Sprintf(out, i) })
	}

	dir, err := os.MkdirTemp(m.root, "video-")
	if err != nil {
		return nil, err
	}
	if err := copyFrames(filepath.Dir(inputs[0]), func(i int) string {
		return filepath.Join(dir, fmt.Sprintf("%06d.png", i))
	}); err != nil {
		return nil, err
	}
	return nil, os.WriteFile(out, []byte(dir), 0o600)
}

func argValues(args []string, flag string) []string {
	var out []string
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			out = append(out, args[i+1])
		}
	}
	return out
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func copyFrames(srcDir string, dst func(int) string) error {
	matches, err := filepath.Glob(filepath.Join(srcDir, "*.png"))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for i, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst(i), data, 0o600); err != nil {
			return err
		}
	}
	return nil
}

type fixture struct {
	media *fakeMedia
	dir   string
	input string
	cover string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	framesDir := filepath.Join(dir, "source")
	require.NoError(t, os.Mkdir(framesDir, 0o700))
	for i := 0; i < 10; i++ {
		f := video.NewFrame(16, 16, 3)
		for j := range f.Pix {
			f.Pix[j] = byte(j*3 + i*11)
		}
		require.NoError(t, video.SaveFrame(filepath.Join(framesDir, fmt.Sprintf("%06d.png", i)), f, video.FormatPNG))
	}

	input := filepath.Join(dir, "input.vid")
	require.NoError(t, os.WriteFile(input, []byte(framesDir), 0o600))

	cover := video.NewFrame(32, 32, 3)
	coverPath := filepath.Join(dir, "cover.png")
	require.NoError(t, video.SaveFrame(coverPath, cover, video.FormatPNG))

	return &fixture{
		media: &fakeMedia{root: dir},
		dir:   dir,
		input: input,
		cover: coverPath,
	}
}

func (fx *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := NewApp(fx.media)
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"vidstego", "--config", "", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run(t, "keygen")
	require.NoError(t, err)
	_, err = crypto.ParseKey(strings.TrimSpace(out))
	assert.NoError(t, err)

	keyFile := filepath.Join(fx.dir, "key.hex")
	_, err = fx.run(t, "keygen", "--out-file", keyFile)
	require.NoError(t, err)
	data, err := os.ReadFile(keyFile)
	require.NoError(t, err)
	_, err = crypto.ParseKey(strings.TrimSpace(string(data)))
	assert.NoError(t, err)
}

func TestEncodeDecodeWithIndexImage(t *testing.T) {
	fx := newFixture(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	output := filepath.Join(fx.dir, "output.mov")
	indexOut := filepath.Join(fx.dir, "index.png")

	out, err := fx.run(t, "encode",
		"--input", fx.input,
		"--output", output,
		"--message", "Hello World",
		"--key", key.Hex(),
		"--frames", "2,3,4",
		"--index-image", fx.cover,
		"--index-out", indexOut,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "frames used:  2,3,4")
	assert.FileExists(t, output)
	assert.FileExists(t, indexOut)

	out, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(), "--index-image", indexOut)
	require.NoError(t, err)
	assert.Contains(t, out, "message:   Hello World")
	assert.Contains(t, out, "integrity: verified")

	out, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(), "--frames", "2-4")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello World")

	msgFile := filepath.Join(fx.dir, "message.txt")
	_, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(), "--frames", "2,3,4", "--out-file", msgFile)
	require.NoError(t, err)
	data, err := os.ReadFile(msgFile)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(data))

	_, err = fx.run(t, "decode", "--input", output, "--passphrase", "not the key", "--frames", "2,3,4")
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestEncodeDecodeScanAllWithPassphrase(t *testing.T) {
	fx := newFixture(t)
	output := filepath.Join(fx.dir, "output.mkv")
	msgFile := filepath.Join(fx.dir, "secret.txt")
	require.NoError(t, os.WriteFile(msgFile, []byte("meet at dawn"), 0o600))

	_, err := fx.run(t, "--cipher", "xchacha20-poly1305", "--channels", "gb", "encode",
		"--input", fx.input,
		"--output", output,
		"--message-file", msgFile,
		"--passphrase", "correct horse",
		"--scan-all",
	)
	require.NoError(t, err)

	out, err := fx.run(t, "--cipher", "xchacha20-poly1305", "--channels", "gb", "decode",
		"--input", output,
		"--passphrase", "correct horse",
		"--scan-all",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "message:   meet at dawn")
}

func TestCapacity(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run(t, "capacity", "--input", fx.input, "--frames", "0,1")
	require.NoError(t, err)
	assert.Contains(t, out, "video frames:  10")
	assert.Contains(t, out, "selected:      2")
	assert.Contains(t, out, "capacity:      1,536 bits (192 B)")
	// 192 - 4 prefix - 44 overhead bytes.
	assert.Contains(t, out, "max message:   144 B")

	out, err = fx.run(t, "capacity", "--input", fx.input)
	require.NoError(t, err)
	assert.Contains(t, out, "selected:      10")
}

func TestCommandFlagErrors(t *testing.T) {
	fx := newFixture(t)
	key, _ := crypto.GenerateKey()
	output := filepath.Join(fx.dir, "output.mov")

	tests := []struct {
		name string
		args []string
	}{
		{"no key", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--frames", "1"}},
		{"two keys", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--frames", "1", "--key", key.Hex(), "--passphrase", "p"}},
		{"no frames", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--key", key.Hex()}},
		{"frames and scan all", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--key", key.Hex(), "--frames", "1", "--scan-all"}},
		{"bad frames", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--key", key.Hex(), "--frames", "1,1"}},
		{"index cover without output", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--key", key.Hex(), "--frames", "1", "--index-image", fx.cover}},
		{"bad key", []string{"encode", "--input", fx.input, "--output", output, "--message", "x", "--key", "abcd", "--frames", "1"}},
		{"bad channels", []string{"--channels", "xyz", "capacity", "--input", fx.input}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.run(t, tt.args...)
			assert.Error(t, err)
			assert.NoFileExists(t, output)
		})
	}
}

func TestPrintConfig(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run(t, "--channels", "r", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cipher: aes-256-gcm")
	assert.Contains(t, out, "channels: r")
}

func TestKeyRingFlow(t *testing.T) {
	fx := newFixture(t)
	ring := filepath.Join(fx.dir, "ring")
	output := filepath.Join(fx.dir, "output.mov")
	ringFlags := []string{"--keyring", ring, "--keyring-passphrase", "ring-pass"}

	out, err := fx.run(t, append([]string{"keygen", "--key-name", "bob"}, ringFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `stored key "bob"`)

	_, err = fx.run(t, append([]string{"encode",
		"--input", fx.input, "--output", output, "--message", "from the ring",
		"--key-name", "bob", "--frames", "7,1"}, ringFlags...)...)
	require.NoError(t, err)

	out, err = fx.run(t, append([]string{"decode",
		"--input", output, "--key-name", "bob", "--frames", "7,1"}, ringFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "message:   from the ring")

	_, err = fx.run(t, "decode", "--input", output, "--key-name", "bob", "--frames", "7,1",
		"--keyring", ring, "--keyring-passphrase", "wrong")
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	_, err = fx.run(t, "decode", "--input", output, "--key-name", "bob", "--frames", "7,1")
	assert.Error(t, err)
}

func TestIndexDatabaseFlow(t *testing.T) {
	fx := newFixture(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	db := filepath.Join(fx.dir, "indices")
	output := filepath.Join(fx.dir, "clip.mov")

	out, err := fx.run(t, "encode",
		"--input", fx.input,
		"--output", output,
		"--message", "ordered",
		"--key", key.Hex(),
		"--frames", "6,2,8",
		"--index-db", db,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "index entry:  clip.mov in "+db)

	out, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(), "--index-db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "message:   ordered")

	out, err = fx.run(t, "index", "list", "--index-db", db)
	require.NoError(t, err)
	assert.Equal(t, "clip.mov\n", out)

	_, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(),
		"--index-db", db, "--index-image", fx.cover)
	assert.ErrorIs(t, err, ErrConflictingFlags)

	_, err = fx.run(t, "index", "delete", "--index-db", db, "clip.mov")
	require.NoError(t, err)

	_, err = fx.run(t, "decode", "--input", output, "--key", key.Hex(), "--index-db", db)
	assert.Error(t, err)
}
