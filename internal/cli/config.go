package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/config"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/opd-ai/vidstego/index"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// ErrNoKey indicates none of the key flags was given.
var ErrNoKey = errors.New("one of --key, --key-file, --passphrase or --key-name is required")

// ErrConflictingFlags indicates mutually exclusive flags were combined.
var ErrConflictingFlags = errors.New("conflicting flags")

// NewConfigFromCLI loads the profile named by --config, or the defaults, and
// applies the global flag overrides. It also configures the standard logrus
// logger.
func NewConfigFromCLI(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(ConfigFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := c.String(LogLevelFlag.Name); v != "" {
		cfg.Logging.Level = v
	}
	if v := c.String(LogFormatFlag.Name); v != "" {
		cfg.Logging.Format = v
	}
	if v := c.String(CipherFlag.Name); v != "" {
		cfg.Embedding.Cipher = v
	}
	if v := c.String(ChannelsFlag.Name); v != "" {
		cfg.Embedding.Channels = v
	}
	if v := c.Int(MaxBitsPerFrameFlag.Name); v >= 0 {
		cfg.Embedding.MaxBitsPerFrame = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyLogging(logrus.StandardLogger()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KeyRingFromCLI opens the key ring named by --keyring.
func KeyRingFromCLI(c *cli.Context) (*crypto.KeyRing, error) {
	dir := c.String(KeyRingFlag.Name)
	if dir == "" {
		return nil, errors.New("--keyring is required with --key-name")
	}
	passphrase := c.String(KeyRingPassphraseFlag.Name)
	if passphrase == "" {
		return nil, errors.New("--keyring-passphrase is required to open the key ring")
	}
	return crypto.OpenKeyRing(dir, []byte(passphrase))
}

// KeyFromCLI resolves exactly one of --key, --key-file, --passphrase and
// --key-name.
func KeyFromCLI(c *cli.Context) (crypto.Key, error) {
	hexKey := c.String(KeyFlag.Name)
	keyFile := c.String(KeyFileFlag.Name)
	passphrase := c.String(PassphraseFlag.Name)
	keyName := c.String(KeyNameFlag.Name)

	set := 0
	for _, v := range []string{hexKey, keyFile, passphrase, keyName} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return crypto.Key{}, ErrNoKey
	case set > 1:
		return crypto.Key{}, fmt.Errorf("%w: use only one of --key, --key-file, --passphrase and --key-name", ErrConflictingFlags)
	}

	switch {
	case keyName != "":
		ring, err := KeyRingFromCLI(c)
		if err != nil {
			return crypto.Key{}, err
		}
		defer ring.Close()
		return ring.Load(keyName)
	case keyFile != "":
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return crypto.Key{}, fmt.Errorf("failed to read key file: %w", err)
		}
		return crypto.ParseKey(strings.TrimSpace(string(data)))
	case passphrase != "":
		return crypto.KeyFromPassphrase([]byte(passphrase))
	default:
		return crypto.ParseKey(hexKey)
	}
}

// MessageFromCLI reads --message or --message-file.
func MessageFromCLI(c *cli.Context) ([]byte, error) {
	msg := c.String(MessageFlag.Name)
	file := c.String(MessageFileFlag.Name)

	switch {
	case c.IsSet(MessageFlag.Name) && file != "":
		return nil, fmt.Errorf("%w: use only one of --message and --message-file", ErrConflictingFlags)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return data, nil
	case c.IsSet(MessageFlag.Name):
		return []byte(msg), nil
	default:
		return nil, errors.New("one of --message or --message-file is required")
	}
}

// SelectionSourceFromCLI resolves --frames, --scan-all and, when store is
// not nil, the index image. Exactly one of them must be given unless
// fallbackScanAll is set, in which case no flag means every frame.
func SelectionSourceFromCLI(c *cli.Context, store index.Store, fallbackScanAll bool) (index.Source, error) {
	frames := c.String(FramesFlag.Name)
	scanAll := c.Bool(ScanAllFlag.Name)

	set := 0
	if frames != "" {
		set++
	}
	if scanAll {
		set++
	}
	if store != nil {
		set++
	}

	switch {
	case set > 1:
		return nil, fmt.Errorf("%w: use only one of --frames, --scan-all and --index-image", ErrConflictingFlags)
	case frames != "":
		sel, err := video.ParseSelection(frames)
		if err != nil {
			return nil, err
		}
		return index.Manual{Frames: sel}, nil
	case scanAll:
		return index.ScanAll{}, nil
	case store != nil:
		return index.FromStore{Store: store}, nil
	case fallbackScanAll:
		return index.ScanAll{}, nil
	default:
		return nil, errors.New("one of --frames, --scan-all or --index-image is required")
	}
}
