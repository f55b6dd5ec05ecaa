package single

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// WordSize is the unit of instruction fetch and data access, in bytes.
const WordSize = 4

// Memory is the unified byte-addressable store holding both instructions and
// data. Words are stored big-endian, for fetch and data access alike. All
// word operations enforce alignment and bounds; a failing write never
// mutates any byte.
type Memory struct {
	data []byte
}

func NewMemory(size uint32) *Memory {
	return &Memory{data: make([]byte, size)}
}

func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

func (m *Memory) checkWord(addr uint32, kind Access) error {
	if addr%WordSize != 0 {
		return &MemError{Access: kind, Addr: addr, Err: ErrUnaligned}
	}
	if uint64(addr)+WordSize > uint64(len(m.data)) {
		return &MemError{Access: kind, Addr: addr, Err: ErrOutOfBounds}
	}
	return nil
}

// FetchWord reads the word at addr as an instruction fetch. It behaves like
// ReadWord but faults are attributed to the fetch stage.
func (m *Memory) FetchWord(addr uint32) (uint32, error) {
	if err := m.checkWord(addr, AccessFetch); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.data[addr:]), nil
}

func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if err := m.checkWord(addr, AccessRead); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.data[addr:]), nil
}

func (m *Memory) WriteWord(addr uint32, v uint32) error {
	if err := m.checkWord(addr, AccessWrite); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.data[addr:], v)
	return nil
}

// ReadByte and WriteByte only enforce bounds; byte access has no alignment
// requirement.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if uint64(addr) >= uint64(len(m.data)) {
		return 0, &MemError{Access: AccessRead, Addr: addr, Err: ErrOutOfBounds}
	}
	return m.data[addr], nil
}

func (m *Memory) WriteByte(addr uint32, v byte) error {
	if uint64(addr) >= uint64(len(m.data)) {
		return &MemError{Access: AccessWrite, Addr: addr, Err: ErrOutOfBounds}
	}
	m.data[addr] = v
	return nil
}

// SetMemoryRange copies the reader's contents into memory starting at addr.
// It fails with an out-of-bounds fault if the reader holds more data than
// the remaining capacity.
func (m *Memory) SetMemoryRange(addr uint32, r io.Reader) error {
	if uint64(addr) > uint64(len(m.data)) {
		return &MemError{Access: AccessWrite, Addr: addr, Err: ErrOutOfBounds}
	}
	for {
		if int(addr) == len(m.data) {
			var tmp [1]byte
			if n, _ := r.Read(tmp[:]); n > 0 {
				return &MemError{Access: AccessWrite, Addr: addr, Err: ErrOutOfBounds}
			}
			return nil
		}
		n, err := r.Read(m.data[addr:])
		addr += uint32(n)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ReadMemoryRange returns a reader over [addr, addr+count), clamped to the
// memory capacity. The reader observes live memory, so consume it before
// the next write.
func (m *Memory) ReadMemoryRange(addr uint32, count uint32) io.Reader {
	if uint64(addr) >= uint64(len(m.data)) {
		return bytes.NewReader(nil)
	}
	end := uint64(addr) + uint64(count)
	if end > uint64(len(m.data)) {
		end = uint64(len(m.data))
	}
	return bytes.NewReader(m.data[addr:end])
}

// Serialize writes the memory in a simple binary format which can be read
// again using Deserialize: a big-endian uint32 size followed by the raw
// contents.
func (m *Memory) Serialize(out io.Writer) error {
	if err := binary.Write(out, binary.BigEndian, m.Size()); err != nil {
		return err
	}
	_, err := out.Write(m.data)
	return err
}

func (m *Memory) Deserialize(in io.Reader) error {
	var size uint32
	if err := binary.Read(in, binary.BigEndian, &size); err != nil {
		return err
	}
	m.data = make([]byte, size)
	_, err := io.ReadFull(in, m.data)
	return err
}

type memoryJSON struct {
	Size uint32        `json:"size"`
	Data hexutil.Bytes `json:"data"`
}

func (m *Memory) MarshalJSON() ([]byte, error) {
	return json.Marshal(memoryJSON{Size: m.Size(), Data: m.data})
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var out memoryJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if uint64(len(out.Data)) > uint64(out.Size) {
		return fmt.Errorf("memory data (%d bytes) exceeds declared size %d", len(out.Data), out.Size)
	}
	m.data = make([]byte, out.Size)
	copy(m.data, out.Data)
	return nil
}
