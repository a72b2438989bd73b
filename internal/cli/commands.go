// Package cli implements the vidstego command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/opd-ai/vidstego"
	"github.com/opd-ai/vidstego/av/mux"
	"github.com/opd-ai/vidstego/config"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/opd-ai/vidstego/index"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// NewApp builds the command line application. External tools run through
// runner; a nil runner uses mux.ExecRunner.
func NewApp(runner mux.Runner) *cli.App {
	if runner == nil {
		runner = mux.ExecRunner{}
	}
	a := &app{runner: runner}

	return &cli.App{
		Name:  "vidstego",
		Usage: "Hide an encrypted message in the least-significant bits of video frames",
		Flags: GlobalFlags(),
		Commands: []*cli.Command{
			{
				Name:  "encode",
				Usage: "Embed a message into selected frames and rebuild the video losslessly",
				Flags: append([]cli.Flag{
					InputFlag, OutputFlag, MessageFlag, MessageFileFlag,
					FramesFlag, ScanAllFlag, IndexImageFlag, IndexOutFlag,
					IndexDBFlag, IndexNameFlag,
				}, keyFlags()...),
				Action: a.encode,
			},
			{
				Name:  "decode",
				Usage: "Recover a message from selected frames",
				Flags: append([]cli.Flag{
					InputFlag, FramesFlag, ScanAllFlag, IndexImageFlag,
					IndexDBFlag, IndexNameFlag, OutFileFlag,
				}, keyFlags()...),
				Action: a.decode,
			},
			{
				Name:   "capacity",
				Usage:  "Report how many bytes the selected frames can carry",
				Flags:  []cli.Flag{InputFlag, FramesFlag, ScanAllFlag},
				Action: a.capacity,
			},
			{
				Name:   "keygen",
				Usage:  "Generate a random 256-bit key",
				Flags:  append([]cli.Flag{OutFileFlag, KeyNameFlag}, keyRingFlags()...),
				Action: a.keygen,
			},
			{
				Name:  "index",
				Usage: "Manage the index database",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List stored index names",
						Flags:  []cli.Flag{requiredIndexDBFlag},
						Action: a.indexList,
					},
					{
						Name:      "delete",
						Usage:     "Delete stored indices",
						ArgsUsage: "NAME...",
						Flags:     []cli.Flag{requiredIndexDBFlag},
						Action:    a.indexDelete,
					},
				},
			},
			{
				Name:   "config",
				Usage:  "Print the effective profile as YAML",
				Action: a.printConfig,
			},
		},
	}
}

type app struct {
	runner mux.Runner
}

// session is the state shared by the commands that open a video.
type session struct {
	cfg      *config.Config
	pipeline *vidstego.Pipeline
	ws       *mux.Workspace
}

func (a *app) open(c *cli.Context) (*session, error) {
	cfg, err := NewConfigFromCLI(c)
	if err != nil {
		return nil, err
	}
	options, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}
	pipeline, err := vidstego.New(options)
	if err != nil {
		return nil, err
	}

	ws, err := mux.Open(c.Context, a.runner, c.String(InputFlag.Name), cfg.MuxConfig())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, pipeline: pipeline, ws: ws}, nil
}

func (s *session) indexStore(key crypto.Key, path, cover string) (*index.ImageStore, error) {
	options := s.pipeline.Options()
	return index.NewImageStore(index.ImageStoreConfig{
		Path:  path,
		Cover: cover,
		Key:   key,
		Suite: options.Suite,
		Plan:  options.Plan,
	})
}

// indexName is --index-name, or the base name of video.
func indexName(c *cli.Context, video string) string {
	if name := c.String(IndexNameFlag.Name); name != "" {
		return name
	}
	return filepath.Base(video)
}

func (s *session) dbStore(c *cli.Context, key crypto.Key, dir, video string) (*index.DB, *index.DBStore, error) {
	db, err := index.OpenDB(dir)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.Store(indexName(c, video), key, s.pipeline.Options().Suite)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func (a *app) encode(c *cli.Context) error {
	msg, err := MessageFromCLI(c)
	if err != nil {
		return err
	}
	key, err := KeyFromCLI(c)
	if err != nil {
		return err
	}
	defer key.Wipe()

	source, err := SelectionSourceFromCLI(c, nil, false)
	if err != nil {
		return err
	}

	cover, indexOut := c.String(IndexImageFlag.Name), c.String(IndexOutFlag.Name)
	if (cover == "") != (indexOut == "") {
		return errors.New("--index-image and --index-out must be given together")
	}
	dbDir := c.String(IndexDBFlag.Name)
	if cover != "" && dbDir != "" {
		return fmt.Errorf("%w: use only one of --index-image and --index-db", ErrConflictingFlags)
	}

	s, err := a.open(c)
	if err != nil {
		return err
	}
	defer s.ws.Close()

	cfg := vidstego.EncodeConfig{
		Plaintext: msg,
		Key:       key,
		Source:    source,
		Output:    c.String(OutputFlag.Name),
	}
	if cover != "" {
		store, err := s.indexStore(key, indexOut, cover)
		if err != nil {
			return err
		}
		cfg.PersistIndices = true
		cfg.Store = store
	}
	if dbDir != "" {
		db, store, err := s.dbStore(c, key, dbDir, c.String(OutputFlag.Name))
		if err != nil {
			return err
		}
		defer db.Close()
		cfg.PersistIndices = true
		cfg.Store = store
	}

	report, err := s.pipeline.Encode(c.Context, s.ws, cfg)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "frames used:  %s\n", report.Selection)
	fmt.Fprintf(w, "payload:      %s (%s bits)\n", humanize.IBytes(uint64(report.PayloadBits/8)), humanize.Comma(int64(report.PayloadBits)))
	fmt.Fprintf(w, "output:       %s\n", cfg.Output)
	if report.IndexStored {
		if dbDir != "" {
			fmt.Fprintf(w, "index entry:  %s in %s\n", indexName(c, cfg.Output), dbDir)
		} else {
			fmt.Fprintf(w, "index image:  %s\n", indexOut)
		}
	}
	return nil
}

func (a *app) decode(c *cli.Context) error {
	key, err := KeyFromCLI(c)
	if err != nil {
		return err
	}
	defer key.Wipe()

	s, err := a.open(c)
	if err != nil {
		return err
	}
	defer s.ws.Close()

	var store index.Store
	if path := c.String(IndexImageFlag.Name); path != "" {
		imageStore, err := s.indexStore(key, path, "")
		if err != nil {
			return err
		}
		store = imageStore
	}
	if dbDir := c.String(IndexDBFlag.Name); dbDir != "" {
		if store != nil {
			return fmt.Errorf("%w: use only one of --index-image and --index-db", ErrConflictingFlags)
		}
		db, entry, err := s.dbStore(c, key, dbDir, c.String(InputFlag.Name))
		if err != nil {
			return err
		}
		defer db.Close()
		store = entry
	}
	source, err := SelectionSourceFromCLI(c, store, false)
	if err != nil {
		return err
	}

	result, err := s.pipeline.Decode(s.ws, vidstego.DecodeConfig{Key: key, Source: source})
	if err != nil {
		return err
	}

	w := c.App.Writer
	if out := c.String(OutFileFlag.Name); out != "" {
		if err := os.WriteFile(out, result.Plaintext, 0o600); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "decode",
			"file":     out,
			"size":     len(result.Plaintext),
		}).Info("Message written to file")
	} else {
		fmt.Fprintf(w, "message:   %s\n", result.Plaintext)
	}
	fmt.Fprintf(w, "integrity: %s\n", result.Integrity)
	return nil
}

func (a *app) capacity(c *cli.Context) error {
	source, err := SelectionSourceFromCLI(c, nil, true)
	if err != nil {
		return err
	}

	s, err := a.open(c)
	if err != nil {
		return err
	}
	defer s.ws.Close()

	report, err := s.pipeline.Capacity(s.ws, source)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "video frames:  %s\n", humanize.Comma(int64(s.ws.FrameCount())))
	fmt.Fprintf(w, "selected:      %s\n", humanize.Comma(int64(len(report.Selection))))
	fmt.Fprintf(w, "capacity:      %s bits (%s)\n", humanize.Comma(int64(report.Bits)), humanize.IBytes(uint64(report.Bits/8)))
	fmt.Fprintf(w, "max message:   %s\n", humanize.IBytes(uint64(report.MaxPlaintext)))
	return nil
}

func (a *app) keygen(c *cli.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	defer key.Wipe()

	if name := c.String(KeyNameFlag.Name); name != "" {
		ring, err := KeyRingFromCLI(c)
		if err != nil {
			return err
		}
		defer ring.Close()
		if err := ring.Store(name, key); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "stored key %q in %s\n", name, c.String(KeyRingFlag.Name))
		return nil
	}

	if out := c.String(OutFileFlag.Name); out != "" {
		return os.WriteFile(out, []byte(key.Hex()+"\n"), 0o600)
	}
	_, err = io.WriteString(c.App.Writer, key.Hex()+"\n")
	return err
}

var requiredIndexDBFlag = &cli.StringFlag{
	Name:     IndexDBFlag.Name,
	Usage:    IndexDBFlag.Usage,
	EnvVars:  IndexDBFlag.EnvVars,
	Required: true,
}

func (a *app) indexList(c *cli.Context) error {
	db, err := index.OpenDB(c.String(IndexDBFlag.Name))
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := db.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func (a *app) indexDelete(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("index delete needs at least one NAME")
	}
	db, err := index.OpenDB(c.String(IndexDBFlag.Name))
	if err != nil {
		return err
	}
	defer db.Close()

	for _, name := range c.Args().Slice() {
		if err := db.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printConfig(c *cli.Context) error {
	cfg, err := NewConfigFromCLI(c)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}
