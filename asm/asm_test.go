package asm

import (
	"strings"
	"testing"
)

var hexDigits = "0123456789ABCDEF"

func checkASM(t *testing.T, source string, expected string) {
	t.Helper()
	a, err := AssembleString(source, nil)
	if err != nil {
		t.Fatal(err)
	}

	b := make([]byte, len(a.Code)*2)
	for i, j := 0, 0; i < len(a.Code); i, j = i+1, j+2 {
		v := a.Code[i]
		b[j+0] = hexDigits[v>>4]
		b[j+1] = hexDigits[v&0x0f]
	}
	got := string(b)

	if got != expected {
		t.Errorf("code doesn't match expected\ngot: %s\nexp: %s", got, expected)
	}
}

func checkASMError(t *testing.T, source string, target error) {
	t.Helper()
	_, err := AssembleString(source, nil)
	if err == nil {
		t.Fatalf("expected an error assembling %q", source)
	}
}

func TestAddressingIMM(t *testing.T) {
	src := `
	LDA #$20
	LDX #$20
	LDY #$20
	ADC #$20
	SBC #$20
	CMP #$20
	CPX #$20
	CPY #$20
	AND #$20
	ORA #$20
	EOR #$20`

	checkASM(t, src, "A920A220A0206920E920C920E020C020292009204920")
}

func TestAddressingABS(t *testing.T) {
	src := `
	LDA $2000
	LDX $2000
	LDY $2000
	STA $2000
	STX $2000
	STY $2000
	ADC $2000
	SBC $2000
	CMP $2000
	CPX $2000
	CPY $2000
	BIT $2000
	AND $2000
	ORA $2000
	EOR $2000
	INC $2000
	DEC $2000
	JMP $2000
	JSR $2000
	ASL $2000
	LSR $2000
	ROL $2000
	ROR $2000`

	checkASM(t, src, "AD0020AE0020AC00208D00208E00208C00206D0020ED0020CD0020"+
		"EC0020CC00202C00202D00200D00204D0020EE0020CE00204C00202000200E0020"+
		"4E00202E00206E0020")
}

func TestAddressingABX(t *testing.T) {
	src := `
	LDA $2000,X
	LDY $2000,X
	STA $2000,X
	ADC $2000,X
	SBC $2000,X
	CMP $2000,X
	AND $2000,X
	ORA $2000,X
	EOR $2000,X
	INC $2000,X
	DEC $2000,X
	ASL $2000,X
	LSR $2000,X
	ROL $2000,X
	ROR $2000,X`

	checkASM(t, src, "BD0020BC00209D00207D0020FD0020DD00203D00201D00205D0020"+
		"FE0020DE00201E00205E00203E00207E0020")
}

func TestAddressingABY(t *testing.T) {
	src := `
	LDA $2000,Y
	LDX $2000,Y
	STA $2000,Y
	ADC $2000,Y
	SBC $2000,Y
	CMP $2000,Y
	AND $2000,Y
	ORA $2000,Y
	EOR $2000,Y`

	checkASM(t, src, "B90020BE0020990020790020F90020D90020390020190020590020")
}

func TestAddressingZPG(t *testing.T) {
	src := `
	LDA $20
	LDX $20
	LDY $20
	STA $20
	STX $20
	STY $20
	ADC $20
	SBC $20
	CMP $20
	CPX $20
	CPY $20
	BIT $20
	AND $20
	ORA $20
	EOR $20
	INC $20
	DEC $20
	ASL $20
	LSR $20
	ROL $20
	ROR $20`

	checkASM(t, src, "A520A620A4208520862084206520E520C520E420C42024202520"+
		"05204520E620C6200620462026206620")
}

func TestAddressingIND(t *testing.T) {
	src := `
	JMP ($2000)`

	checkASM(t, src, "6C0020")
}

func TestAddressingIDXAndIDY(t *testing.T) {
	src := `
	LDA ($20,X)
	STA ($20),Y`

	checkASM(t, src, "A1209120")
}

func TestForwardLabelAbsolute(t *testing.T) {
	src := `
	JMP target
target:
	NOP`

	checkASM(t, src, "4C0306EA")
}

func TestBackwardLabelRelative(t *testing.T) {
	src := `
loop:
	DEX
	BNE loop`

	checkASM(t, src, "CAD0FD")
}

func TestForwardLabelRelative(t *testing.T) {
	src := `
	BEQ done
	NOP
done:
	NOP`

	checkASM(t, src, "F001EAEA")
}

func TestUndefinedLabel(t *testing.T) {
	checkASMError(t, "JMP nowhere", nil)
}

func TestDuplicateLabel(t *testing.T) {
	src := `
here:
	NOP
here:
	NOP`
	checkASMError(t, src, nil)
}

func TestBranchOutOfRange(t *testing.T) {
	var b strings.Builder
	b.WriteString("start:\n")
	for i := 0; i < 200; i++ {
		b.WriteString("\tNOP\n")
	}
	b.WriteString("\tBEQ start\n")
	checkASMError(t, b.String(), nil)
}

func TestUnsupportedAddressingMode(t *testing.T) {
	checkASMError(t, "STA #$20", nil)
}

func TestAccumulatorMode(t *testing.T) {
	checkASM(t, "ASL A", "0A")
}

func TestImplied(t *testing.T) {
	checkASM(t, "NOP", "EA")
}
