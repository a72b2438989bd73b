package cli

import "github.com/urfave/cli/v2"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to a YAML profile",
		EnvVars: []string{"VIDSTEGO_CONFIG"},
	}

	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error); overrides the profile",
		EnvVars: []string{"LOG_LEVEL"},
	}

	LogFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format (text, json); overrides the profile",
	}

	CipherFlag = &cli.StringFlag{
		Name:  "cipher",
		Usage: "Cipher suite (aes-256-gcm, xchacha20-poly1305); overrides the profile",
	}

	ChannelsFlag = &cli.StringFlag{
		Name:  "channels",
		Usage: "Carrier channels, any of r, g, b; overrides the profile",
	}

	MaxBitsPerFrameFlag = &cli.IntFlag{
		Name:  "max-bits-per-frame",
		Usage: "Cap on payload bits per frame, 0 for every slot; overrides the profile",
		Value: -1,
	}

	InputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Input video",
		Required: true,
	}

	OutputFlag = &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "Output video; use a lossless container such as .mov or .mkv",
		Required: true,
	}

	MessageFlag = &cli.StringFlag{
		Name:    "message",
		Aliases: []string{"m"},
		Usage:   "Message to hide",
	}

	MessageFileFlag = &cli.StringFlag{
		Name:  "message-file",
		Usage: "File whose contents are hidden",
	}

	KeyFlag = &cli.StringFlag{
		Name:    "key",
		Usage:   "256-bit key as 64 hex characters",
		EnvVars: []string{"VIDSTEGO_KEY"},
	}

	KeyFileFlag = &cli.StringFlag{
		Name:  "key-file",
		Usage: "File holding the hex key",
	}

	PassphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "Derive the key from a passphrase",
		EnvVars: []string{"VIDSTEGO_PASSPHRASE"},
	}

	KeyRingFlag = &cli.StringFlag{
		Name:    "keyring",
		Usage:   "Key ring directory holding named keys sealed under a passphrase",
		EnvVars: []string{"VIDSTEGO_KEYRING"},
	}

	KeyNameFlag = &cli.StringFlag{
		Name:  "key-name",
		Usage: "Name of the key in the key ring",
	}

	KeyRingPassphraseFlag = &cli.StringFlag{
		Name:    "keyring-passphrase",
		Usage:   "Passphrase of the key ring",
		EnvVars: []string{"VIDSTEGO_KEYRING_PASSPHRASE"},
	}

	FramesFlag = &cli.StringFlag{
		Name:    "frames",
		Aliases: []string{"f"},
		Usage:   "Frame selection in order, e.g. \"2,3,4\" or \"1-48\" or \"1,4,6-9\"",
	}

	ScanAllFlag = &cli.BoolFlag{
		Name:  "scan-all",
		Usage: "Use every frame in order",
	}

	IndexImageFlag = &cli.StringFlag{
		Name:  "index-image",
		Usage: "Encode: cover image for the frame index. Decode: index image to read the frame order from",
	}

	IndexOutFlag = &cli.StringFlag{
		Name:  "index-out",
		Usage: "Encode: where to write the index image",
	}

	IndexDBFlag = &cli.StringFlag{
		Name:    "index-db",
		Usage:   "Index database directory; keeps frame indices sealed under the message key",
		EnvVars: []string{"VIDSTEGO_INDEX_DB"},
	}

	IndexNameFlag = &cli.StringFlag{
		Name:  "index-name",
		Usage: "Entry name in the index database (default: base name of the output on encode, the input on decode)",
	}

	OutFileFlag = &cli.StringFlag{
		Name:  "out-file",
		Usage: "Write the recovered message (or generated key) to this file instead of stdout",
	}
)

// GlobalFlags apply to every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		LogLevelFlag,
		LogFormatFlag,
		CipherFlag,
		ChannelsFlag,
		MaxBitsPerFrameFlag,
	}
}

func keyFlags() []cli.Flag {
	return append([]cli.Flag{KeyFlag, KeyFileFlag, PassphraseFlag, KeyNameFlag}, keyRingFlags()...)
}

func keyRingFlags() []cli.Flag {
	return []cli.Flag{KeyRingFlag, KeyRingPassphraseFlag}
}
