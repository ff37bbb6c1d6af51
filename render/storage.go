/*
 Chunk queue between the renderer and the reader of the document
*/

package render

type Storage struct {
	index  int
	chunks []string
}

func NewStorage() *Storage {
	retVal := new(Storage)
	retVal.chunks = make([]string, 0)
	return retVal
}

// String returns the next chunk, "" when all chunks were taken.
func (storage *Storage) String() string {
	if storage.index == len(storage.chunks) {
		return ""
	}
	retVal := storage.chunks[storage.index]
	storage.chunks[storage.index] = ""
	storage.index++
	return retVal
}

// empty strings are discarded
func (storage *Storage) Accept(s string) {
	if len(s) > 0 {
		storage.chunks = append(storage.chunks, s)
	}
}

// Len is the number of chunks not taken yet.
func (storage *Storage) Len() int {
	return len(storage.chunks) - storage.index
}

