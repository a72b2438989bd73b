package bitstream

import "errors"

// ErrFormat indicates a bit sequence whose declared length disagrees with the
// bits supplied, or whose fields cannot be sliced at their boundaries. It
// usually means the wrong frames, the wrong frame order, or a damaged carrier.
var ErrFormat = errors.New("malformed payload")
