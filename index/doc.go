// Package index persists and resolves the ordered frame selection that
// carries a payload.
//
// The frame order is as secret as the key: without it the payload cannot be
// located in the video. An [ImageStore] hides the selection inside a cover
// image, sealed under a key derived from the message key, so the operator
// only has to keep the key and the index image:
//
//	store, err := index.NewImageStore(index.ImageStoreConfig{
//	    Path:  "index.png",
//	    Cover: "cover.png",
//	    Key:   key,
//	})
//	err = store.Put(video.Selection{2, 3, 4})
//	sel, err := store.Get()
//
// A [DB] keeps many sealed selections in a badger database, one entry per
// carrier video name.
//
// A [Source] tells the pipeline where the selection comes from at decode
// time: a [Manual] list, a [FromStore] artifact, or [ScanAll] frames.
package index
