package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	MaxTriggers       = 256
	TriggerRecordSize = 10
	TriggerTableSize  = MaxTriggers * TriggerRecordSize

	// NoTable marks an absent table reference.
	NoTable = 255

	triggerTableCount   = 4
	tileTableCount      = 86
	tileExtraTableBase  = 128
	tileExtraTableCount = 17
	actionTableCount    = 61
)

// TriggerRecord is the on-disk layout of one trigger.
type TriggerRecord struct {
	TileType       uint8
	TileFlags      uint8
	OpFunc         uint8
	OpTable1       uint8
	OpTable2       uint8
	Unk5           uint8
	OpTable3       uint8
	Unk7           uint8
	TileIndex      uint8
	ForegroundTile uint8
}

// DecodeTriggerRecords parses a trigger table file. The size is checked
// before any record is read.
func DecodeTriggerRecords(b []byte) ([MaxTriggers]TriggerRecord, error) {
	var records [MaxTriggers]TriggerRecord
	if len(b) != TriggerTableSize {
		return records, formatError("trigger table of %d bytes, expected %d", len(b), TriggerTableSize)
	}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &records); err != nil {
		return records, err
	}
	return records, nil
}

// LookupTable resolves table references to level data.
type LookupTable interface {
	Len() int
	At(i int) []byte
}

// Tables is a LookupTable over a slice.
type Tables [][]byte

func (t Tables) Len() int        { return len(t) }
func (t Tables) At(i int) []byte { return t[i] }

// TriggerLookups are the tables trigger records reference.
type TriggerLookups struct {
	// Triggers resolves OpTable1, indices [0,4).
	Triggers LookupTable
	// Tiles resolves OpTable2 indices [0,86).
	Tiles LookupTable
	// TilesExtra resolves OpTable2 indices [128,145), less 128.
	TilesExtra LookupTable
	// Actions resolves OpTable3, indices [0,61).
	Actions LookupTable
}

// Trigger is a trigger record with its table references resolved. A nil
// table is an absent reference.
type Trigger struct {
	TriggerRecord
	Table1 []byte
	Table2 []byte
	Table3 []byte
}

func lookup(table LookupTable, name string, num, count int) ([]byte, error) {
	if num >= count {
		return nil, boundsError("%s index %d outside [0,%d)", name, num, count)
	}
	if table == nil || table.Len() < count {
		return nil, boundsError("%s table provides fewer than %d entries", name, count)
	}
	return table.At(num), nil
}

func (l TriggerLookups) table1(num uint8) ([]byte, error) {
	return lookup(l.Triggers, "op table 1", int(num), triggerTableCount)
}

func (l TriggerLookups) table2(num uint8) ([]byte, error) {
	switch {
	case num == NoTable:
		return nil, nil
	case num < tileExtraTableBase:
		return lookup(l.Tiles, "op table 2", int(num), tileTableCount)
	default:
		return lookup(l.TilesExtra, "op table 2 extra", int(num)-tileExtraTableBase, tileExtraTableCount)
	}
}

func (l TriggerLookups) table3(num uint8) ([]byte, error) {
	if num == NoTable {
		return nil, nil
	}
	return lookup(l.Actions, "op table 3", int(num), actionTableCount)
}

// Resolve looks up the table references of r.
func (l TriggerLookups) Resolve(r TriggerRecord) (Trigger, error) {
	t := Trigger{TriggerRecord: r}
	var err error
	if t.Table1, err = l.table1(r.OpTable1); err != nil {
		return t, err
	}
	if t.Table2, err = l.table2(r.OpTable2); err != nil {
		return t, err
	}
	if t.Table3, err = l.table3(r.OpTable3); err != nil {
		return t, err
	}
	return t, nil
}

// LoadTriggers parses a trigger table file into dst, resolving every table
// reference through lookups. dst must hold MaxTriggers entries.
func LoadTriggers(b []byte, lookups TriggerLookups, dst []Trigger) error {
	if len(dst) < MaxTriggers {
		return boundsError("trigger destination holds %d of %d", len(dst), MaxTriggers)
	}
	records, err := DecodeTriggerRecords(b)
	if err != nil {
		return err
	}

	var resolved [MaxTriggers]Trigger
	for i, r := range records {
		t, err := lookups.Resolve(r)
		if err != nil {
			return fmt.Errorf("trigger %d: %w", i, err)
		}
		resolved[i] = t
	}
	copy(dst, resolved[:])
	return nil
}
