// Package vidstego hides an encrypted, authenticated message in the
// least-significant bits of selected video frames and recovers it.
//
// The embedding pipeline is symmetric. Encoding runs
//
//	plaintext → encrypt → checksum → serialize → embed into frames → remux
//
// and decoding runs the same stages in reverse, with authentication checked
// before any plaintext is released.
//
// # Getting Started
//
// Encode a message into frames 2, 3 and 4 of a video and keep the frame
// order in an index image:
//
//	key, _ := crypto.GenerateKey()
//	ws, err := mux.Open(ctx, mux.ExecRunner{}, "input.mp4", mux.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ws.Close()
//
//	store, _ := index.NewImageStore(index.ImageStoreConfig{
//	    Path: "index.png", Cover: "cover.png", Key: key,
//	})
//
//	pipeline, _ := vidstego.New(vidstego.NewOptions())
//	report, err := pipeline.Encode(ctx, ws, vidstego.EncodeConfig{
//	    Plaintext:      []byte("Hello World"),
//	    Key:            key,
//	    Source:         index.Manual{Frames: video.Selection{2, 3, 4}},
//	    PersistIndices: true,
//	    Store:          store,
//	    Output:         "output.mov",
//	})
//
// Decode it again from the rebuilt video:
//
//	result, err := pipeline.Decode(ws2, vidstego.DecodeConfig{
//	    Key:    key,
//	    Source: index.FromStore{Store: store},
//	})
//	fmt.Println(string(result.Plaintext), result.Integrity)
//
// # Errors
//
// Failures are classified with errors.Is against [ErrAuthentication],
// [ErrFormat], [ErrCapacity] and [ErrInvalidSelection]. A checksum mismatch
// is not an error: it is reported as [checksum.StatusMismatch] in
// [DecodeResult.Integrity] next to the authenticated plaintext.
//
// # Frame Order
//
// The payload is spread over the selected frames in selection order, so the
// order is part of the secret. Decoding with the right frames in the wrong
// order fails with ErrFormat or ErrAuthentication; it never yields a wrong
// message.
//
// # Carriers
//
// The pipeline sees video only through [FrameReader] and [Carrier]. The
// ffmpeg-backed [mux.Workspace] implements both; tests and other programs can
// supply in-memory carriers.
package vidstego
