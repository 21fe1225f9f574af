package cpu

// Bus is the memory-mapped view the CPU executes against. It is
// implemented by memory.MMU; tests substitute a flat byte slice.
//
// The CPU's StepMCycle contract commits an instruction's side effects
// atomically on the first M-cycle of its execution and then "pays down"
// the remaining M-cycles one per call (see cpu.go). Because of that, Bus
// itself does not need to track time or charge per-access cycles — the
// cycle count returned by each opcode's exec function already accounts
// for every memory access the real hardware would perform.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}
