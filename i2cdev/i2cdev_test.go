package i2cdev

import (
	"bytes"
	"errors"
	"testing"
)

// fakeDevice answers reads from a register file, addressed by the last
// single-byte write, one byte per Read call to exercise short reads.
type fakeDevice struct {
	regs     [256]byte
	ptr      byte
	slaves   []byte
	writes   [][]byte
	slaveErr error
	closed   bool
}

func (d *fakeDevice) SetSlave(addr byte) error {
	if d.slaveErr != nil {
		return d.slaveErr
	}
	d.slaves = append(d.slaves, addr)
	return nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	p[0] = d.regs[d.ptr]
	d.ptr++
	return 1, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.writes = append(d.writes, append([]byte(nil), p...))
	d.ptr = p[0]
	for i, v := range p[1:] {
		d.regs[int(p[0])+i] = v
	}
	return len(p), nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func TestReadFromReg(t *testing.T) {
	dev := &fakeDevice{}
	copy(dev.regs[0x3B:], []byte{1, 2, 3, 4})
	b := newBus("/dev/i2c-test", dev)

	buf := make([]byte, 4)
	if err := b.ReadFromReg(0x68, 0x3B, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{1, 2, 3, 4}) {
		t.Errorf("got %v", buf)
	}
	v, err := b.ReadByteFromReg(0x68, 0x3D)
	if err != nil || v != 3 {
		t.Errorf("ReadByteFromReg: %d, %v", v, err)
	}
	// The address is only selected when it changes
	if len(dev.slaves) != 1 || dev.slaves[0] != 0x68 {
		t.Errorf("slaves selected: %v", dev.slaves)
	}
	if _, err := b.ReadByteFromReg(0x69, 0x00); err != nil {
		t.Fatal(err)
	}
	if len(dev.slaves) != 2 || dev.slaves[1] != 0x69 {
		t.Errorf("slaves selected: %v", dev.slaves)
	}
}

func TestWriteByteToReg(t *testing.T) {
	dev := &fakeDevice{}
	b := newBus("/dev/i2c-test", dev)
	if err := b.WriteByteToReg(0x68, 0x6B, 0x80); err != nil {
		t.Fatal(err)
	}
	if len(dev.writes) != 1 || !bytes.Equal(dev.writes[0], []byte{0x6B, 0x80}) {
		t.Errorf("writes: %v", dev.writes)
	}
	if dev.regs[0x6B] != 0x80 {
		t.Errorf("register not written")
	}
	if err := b.Close(); err != nil || !dev.closed {
		t.Errorf("Close: %v", err)
	}
}

func TestSelectError(t *testing.T) {
	dev := &fakeDevice{slaveErr: errors.New("device busy")}
	b := newBus("/dev/i2c-test", dev)
	if _, err := b.ReadByteFromReg(0x68, 0x75); err == nil {
		t.Fatal("expected error")
	}
	if len(dev.writes) != 0 {
		t.Errorf("nothing should be written without a slave, got %v", dev.writes)
	}
	dev.slaveErr = nil
	if _, err := b.ReadByteFromReg(0x68, 0x75); err != nil {
		t.Fatalf("expected retry to select the slave again: %v", err)
	}
}

// fakeRegDevice is one address of an AddrBus.
type fakeRegDevice struct {
	regs   [256]byte
	closed bool
}

func (d *fakeRegDevice) ReadRegU8(reg byte) (byte, error) { return d.regs[reg], nil }

func (d *fakeRegDevice) ReadRegBytes(reg byte, n int) ([]byte, int, error) {
	return append([]byte(nil), d.regs[int(reg):int(reg)+n]...), n, nil
}

func (d *fakeRegDevice) WriteRegU8(reg, value byte) error {
	d.regs[reg] = value
	return nil
}

func (d *fakeRegDevice) Close() error {
	d.closed = true
	return nil
}

func TestAddrBus(t *testing.T) {
	devs := map[byte]*fakeRegDevice{}
	opened := 0
	b := NewAddrBus(1)
	b.open = func(addr byte, bus int) (regDevice, error) {
		if addr == 0x50 {
			return nil, errors.New("no such device")
		}
		opened++
		d := &fakeRegDevice{}
		devs[addr] = d
		return d, nil
	}

	if err := b.WriteByteToReg(0x68, 0x3B, 0xAB); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteByteToReg(0x69, 0x75, 0x68); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if err := b.ReadFromReg(0x68, 0x3B, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0xAB, 0x00}) {
		t.Errorf("got % X", buf)
	}
	if v, err := b.ReadByteFromReg(0x69, 0x75); err != nil || v != 0x68 {
		t.Errorf("ReadByteFromReg: %#02x, %v", v, err)
	}
	if opened != 2 {
		t.Errorf("expected one handle per address, opened %d", opened)
	}
	if _, err := b.ReadByteFromReg(0x50, 0x00); err == nil {
		t.Error("expected open error")
	}

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if !devs[0x68].closed || !devs[0x69].closed {
		t.Error("handles not closed")
	}
}

type fakeTx struct {
	addrs  []uint16
	writes [][]byte
	reply  []byte
	err    error
	closed bool
}

func (f *fakeTx) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.addrs = append(f.addrs, addr)
	f.writes = append(f.writes, append([]byte(nil), w...))
	copy(r, f.reply)
	return nil
}

func (f *fakeTx) Close() error {
	f.closed = true
	return nil
}

func TestPeriphBus(t *testing.T) {
	tx := &fakeTx{reply: []byte{0x68, 0x01}}
	b := &PeriphBus{Name: "1", bus: tx}

	v, err := b.ReadByteFromReg(0x69, 0x75)
	if err != nil || v != 0x68 {
		t.Errorf("ReadByteFromReg: %#02x, %v", v, err)
	}
	buf := make([]byte, 2)
	if err := b.ReadFromReg(0x68, 0x3B, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0x68, 0x01}) {
		t.Errorf("got % X", buf)
	}
	if err := b.WriteByteToReg(0x68, 0x6B, 0x80); err != nil {
		t.Fatal(err)
	}
	if tx.addrs[0] != 0x69 || tx.addrs[2] != 0x68 {
		t.Errorf("addresses %v", tx.addrs)
	}
	if !bytes.Equal(tx.writes[1], []byte{0x3B}) || !bytes.Equal(tx.writes[2], []byte{0x6B, 0x80}) {
		t.Errorf("writes % X", tx.writes)
	}

	tx.err = errors.New("nack")
	if _, err := b.ReadByteFromReg(0x68, 0x75); err == nil {
		t.Error("expected error")
	}
	if err := b.Close(); err != nil || !tx.closed {
		t.Errorf("Close: %v", err)
	}
}
