package resource

const AvatarRecordSize = 132

// AvatarTable holds views of fixed size avatar animation records.
type AvatarTable [][]byte

func NewAvatarTable(n int) AvatarTable {
	return make(AvatarTable, n)
}

func (t AvatarTable) At(i int) ([]byte, error) {
	if i < 0 || i >= len(t) {
		return nil, boundsError("avatar frame %d outside table of %d", i, len(t))
	}
	if t[i] == nil {
		return nil, boundsError("avatar frame %d not loaded", i)
	}
	return t[i], nil
}

// LoadAvatars records the avatar frames of b in table, starting at
// table[base], and returns the frame count.
func LoadAvatars(b []byte, table AvatarTable, base int) (int, error) {
	count, err := readCount(b)
	if err != nil {
		return 0, err
	}
	if base < 0 || base+count > len(table) {
		return 0, boundsError("%d avatar frames at %d overflow table of %d", count, base, len(table))
	}
	if end := SheetHeaderSize + count*AvatarRecordSize; end > len(b) {
		return 0, formatError("%d avatar frames need %d bytes, have %d", count, end, len(b))
	}

	ptr := SheetHeaderSize
	for i := 0; i < count; i++ {
		table[base+i] = b[ptr : ptr+AvatarRecordSize : ptr+AvatarRecordSize]
		ptr += AvatarRecordSize
	}
	return count, nil
}
