// Completion: 100% - x86_64 backend fully implemented
package main

// x86_64_codegen.go - Machine code emission for the JIT backend
//
// The generated code is a single subroutine. Register roles, all
// callee-saved and restored by the epilogue:
//
//	r12: base of the cell region (lower bound)
//	r13: end of the cell region (upper bound, exclusive)
//	rbx: current cell pointer
//
// The cell pointer lives in rbx rather than r14 because the Go runtime
// keeps the current goroutine pointer in r14 on amd64 and a signal
// arriving mid-run must still find it there.
//
// Buffer layout: entry jump, write trampoline, read trampoline, prologue,
// program body, exit paths. The trampolines sit at fixed offsets known
// before the body is emitted, so Output/Input sites are plain `call rel32`
// with no fixup. Loop brackets need fixups: the forward branch of a '['
// cannot be resolved until its ']' has been emitted, so its rel32 position
// is recorded keyed by the matching instruction index and patched in place
// when the partner arrives. Branches into the error stubs and the entry
// jump are recorded the same way and patched once the stubs exist.

// Status codes the generated code stores into the status word of the
// memory region header before returning.
const (
	statusOK        = 0
	statusUnderflow = 1
	statusOverflow  = 2
)

// codeParams carries the addresses and descriptors baked into the
// generated code as immediates. The cell region must already be mapped
// when compilation starts so the addresses are final.
type codeParams struct {
	cellsBase  uintptr // first cell (lower bound for the pointer)
	cellsEnd   uintptr // one past the last cell
	statusAddr uintptr // 32-bit status word, written on every exit path
	inFD       int     // descriptor for read(2) in the read trampoline
	outFD      int     // descriptor for write(2) in the write trampoline
}

type codeBuilder struct {
	code []byte

	// rel32 positions of '[' branches, keyed by the program index of the
	// matching ']' instruction
	loopPatches map[int]int

	// rel32 positions waiting for the error stubs
	underflowRefs []int
	overflowRefs  []int

	writeTramp int
	readTramp  int
}

func (b *codeBuilder) write(bytes ...uint8) {
	b.code = append(b.code, bytes...)
}

// write32 emits a 32-bit little-endian immediate
func (b *codeBuilder) write32(v uint32) {
	b.write(uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24))
}

// write64 emits a 64-bit little-endian immediate
func (b *codeBuilder) write64(v uint64) {
	b.write32(uint32(v))
	b.write32(uint32(v >> 32))
}

func (b *codeBuilder) here() int {
	return len(b.code)
}

// patchRel32 resolves the rel32 field at pos so that it branches to
// target. The displacement is counted from the end of the field, which is
// also the end of the branch instruction.
func (b *codeBuilder) patchRel32(pos, target int) {
	rel := int32(target - (pos + 4))
	b.code[pos] = uint8(rel)
	b.code[pos+1] = uint8(rel >> 8)
	b.code[pos+2] = uint8(rel >> 16)
	b.code[pos+3] = uint8(rel >> 24)
}

// jcc emits a two-byte conditional branch with a rel32 placeholder and
// returns the position of the placeholder.
func (b *codeBuilder) jcc(opcode2 uint8) int {
	b.write(0x0F, opcode2)
	pos := b.here()
	b.write32(0)
	return pos
}

// cmpCellZero emits `cmp byte [rbx], 0`
func (b *codeBuilder) cmpCellZero() {
	// 80 /7 ib; ModR/M 00 111 011
	b.write(0x80, 0x3B, 0x00)
}

// compileProgram translates prog into machine code. Pure byte emission;
// nothing here touches executable memory.
func compileProgram(prog Program, p codeParams) []byte {
	b := &codeBuilder{loopPatches: make(map[int]int)}

	// Entry jump over the trampolines to the prologue
	b.write(0xE9) // jmp rel32
	entryPatch := b.here()
	b.write32(0)

	// Write trampoline: write(outFD, rbx, 1)
	b.writeTramp = b.here()
	b.write(0xB8, 0x01, 0x00, 0x00, 0x00) // mov eax, 1 (SYS_write)
	b.write(0xBF)                         // mov edi, imm32
	b.write32(uint32(p.outFD))
	b.write(0x48, 0x89, 0xDE)             // mov rsi, rbx
	b.write(0xBA, 0x01, 0x00, 0x00, 0x00) // mov edx, 1
	b.write(0x0F, 0x05)                   // syscall
	b.write(0xC3)                         // ret

	// Read trampoline: read(inFD, rbx, 1). A read that returns no byte
	// does not touch the buffer, which is exactly the end-of-input policy:
	// the cell is left unchanged.
	b.readTramp = b.here()
	b.write(0x31, 0xC0) // xor eax, eax (SYS_read)
	b.write(0xBF)       // mov edi, imm32
	b.write32(uint32(p.inFD))
	b.write(0x48, 0x89, 0xDE)             // mov rsi, rbx
	b.write(0xBA, 0x01, 0x00, 0x00, 0x00) // mov edx, 1
	b.write(0x0F, 0x05)                   // syscall
	b.write(0xC3)                         // ret

	// Prologue: save the callee-saved registers we use, load the region
	// bounds and point the cell pointer at the first cell
	b.patchRel32(entryPatch, b.here())
	b.write(0x53)       // push rbx
	b.write(0x41, 0x54) // push r12
	b.write(0x41, 0x55) // push r13
	b.write(0x49, 0xBC) // mov r12, imm64
	b.write64(uint64(p.cellsBase))
	b.write(0x49, 0xBD) // mov r13, imm64
	b.write64(uint64(p.cellsEnd))
	b.write(0x4C, 0x89, 0xE3) // mov rbx, r12

	for i, ins := range prog {
		switch ins.Op {
		case OpMovePointer:
			b.emitMovePointer(ins.Arg)
		case OpAddValue:
			// add byte [rbx], imm8 (80 /0 ib)
			b.write(0x80, 0x03, uint8(ins.Arg))
		case OpSetValue:
			// mov byte [rbx], imm8 (C6 /0 ib)
			b.write(0xC6, 0x03, uint8(ins.Arg))
		case OpOutput:
			b.emitCall(b.writeTramp)
		case OpInput:
			b.emitCall(b.readTramp)
		case OpLoopStart:
			b.cmpCellZero()
			// je past the loop; target unknown until the ']' is emitted
			b.loopPatches[ins.Match] = b.jcc(0x84)
		case OpLoopEnd:
			b.cmpCellZero()
			pos := b.loopPatches[i]
			delete(b.loopPatches, i)
			// jne back to just after the '[' test
			b.write(0x0F, 0x85)
			jnePos := b.here()
			b.write32(0)
			b.patchRel32(jnePos, pos+4)
			// and resolve the '[' forward branch to fall out here
			b.patchRel32(pos, b.here())
		case OpScanUntilZero:
			b.emitScan(ins.Arg)
		}
	}

	// Normal exit: status 0
	b.write(0x31, 0xC0) // xor eax, eax
	exitCommon := b.here()
	b.write(0x49, 0xBB) // mov r11, imm64
	b.write64(uint64(p.statusAddr))
	b.write(0x41, 0x89, 0x03) // mov [r11], eax
	b.write(0x41, 0x5D)       // pop r13
	b.write(0x41, 0x5C)       // pop r12
	b.write(0x5B)             // pop rbx
	b.write(0xC3)             // ret

	// Error stubs: set the status code and leave through the epilogue
	underflowStub := b.here()
	b.write(0xB8) // mov eax, imm32
	b.write32(statusUnderflow)
	b.write(0xE9) // jmp rel32
	jmpPos := b.here()
	b.write32(0)
	b.patchRel32(jmpPos, exitCommon)

	overflowStub := b.here()
	b.write(0xB8) // mov eax, imm32
	b.write32(statusOverflow)
	b.write(0xE9) // jmp rel32
	jmpPos = b.here()
	b.write32(0)
	b.patchRel32(jmpPos, exitCommon)

	for _, pos := range b.underflowRefs {
		b.patchRel32(pos, underflowStub)
	}
	for _, pos := range b.overflowRefs {
		b.patchRel32(pos, overflowStub)
	}

	return b.code
}

// emitMovePointer adjusts rbx by delta and bounds-checks the side the
// move can cross. One add plus one compare-and-branch regardless of the
// magnitude of delta.
func (b *codeBuilder) emitMovePointer(delta int) {
	if delta > 0 {
		// add rbx, imm32 (81 /0 id)
		b.write(0x48, 0x81, 0xC3)
		b.write32(uint32(delta))
		// cmp rbx, r13 ; jae overflow
		b.write(0x4C, 0x39, 0xEB)
		b.overflowRefs = append(b.overflowRefs, b.jcc(0x83))
	} else {
		// sub rbx, imm32 (81 /5 id)
		b.write(0x48, 0x81, 0xEB)
		b.write32(uint32(-delta))
		// cmp rbx, r12 ; jb underflow
		b.write(0x4C, 0x39, 0xE3)
		b.underflowRefs = append(b.underflowRefs, b.jcc(0x82))
	}
}

// emitCall emits `call rel32` to a trampoline that was placed before the
// body, so the displacement is known at emission time.
func (b *codeBuilder) emitCall(target int) {
	b.write(0xE8)
	pos := b.here()
	b.write32(0)
	b.patchRel32(pos, target)
}

// emitScan compiles ScanUntilZero into a native tight loop:
//
//	head: cmp byte [rbx], 0
//	      je   done
//	      add/sub rbx, step
//	      cmp rbx, bound ; jcc error stub
//	      jmp  head
//	done:
func (b *codeBuilder) emitScan(step int) {
	head := b.here()
	b.cmpCellZero()
	donePatch := b.jcc(0x84) // je done
	b.emitMovePointer(step)
	b.write(0xE9) // jmp head
	jmpPos := b.here()
	b.write32(0)
	b.patchRel32(jmpPos, head)
	b.patchRel32(donePatch, b.here())
}
