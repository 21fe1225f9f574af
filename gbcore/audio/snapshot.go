package audio

// ChannelSnapshot is one channel's serializable state.
type ChannelSnapshot struct {
	Enabled    bool
	DACEnabled bool
	Left       bool
	Right      bool

	Duty   uint8
	Length uint16
	Volume uint8

	SweepPeriod  uint8
	SweepDown    bool
	SweepStep    uint8
	SweepEnabled bool
	SweepTimer   uint8
	ShadowFreq   uint16

	EnvelopePace    uint8
	EnvelopeUp      bool
	EnvelopeCounter uint8
	EnvelopeLatched bool

	Period       uint16
	LengthEnable bool
	FreqTimer    int
	DutyStep     uint8
	WaveIndex    uint8
	NoiseTimer   int

	LFSR        uint16
	Use7BitLFSR bool
	Shift       uint8
	Divider     uint8
}

func (ch *channel) snapshot() ChannelSnapshot {
	return ChannelSnapshot{
		Enabled: ch.enabled, DACEnabled: ch.dacEnabled, Left: ch.left, Right: ch.right,
		Duty: ch.duty, Length: ch.length, Volume: ch.volume,
		SweepPeriod: ch.sweepPeriod, SweepDown: ch.sweepDown, SweepStep: ch.sweepStep,
		SweepEnabled: ch.sweepEnabled, SweepTimer: ch.sweepTimer, ShadowFreq: ch.shadowFreq,
		EnvelopePace: ch.envelopePace, EnvelopeUp: ch.envelopeUp,
		EnvelopeCounter: ch.envelopeCounter, EnvelopeLatched: ch.envelopeLatched,
		Period: ch.period, LengthEnable: ch.lengthEnable, FreqTimer: ch.freqTimer,
		DutyStep: ch.dutyStep, WaveIndex: ch.waveIndex, NoiseTimer: ch.noiseTimer,
		LFSR: ch.lfsr, Use7BitLFSR: ch.use7bitLFSR, Shift: ch.shift, Divider: ch.divider,
	}
}

func (ch *channel) restore(s ChannelSnapshot) {
	ch.enabled, ch.dacEnabled, ch.left, ch.right = s.Enabled, s.DACEnabled, s.Left, s.Right
	ch.duty, ch.length, ch.volume = s.Duty, s.Length, s.Volume
	ch.sweepPeriod, ch.sweepDown, ch.sweepStep = s.SweepPeriod, s.SweepDown, s.SweepStep
	ch.sweepEnabled, ch.sweepTimer, ch.shadowFreq = s.SweepEnabled, s.SweepTimer, s.ShadowFreq
	ch.envelopePace, ch.envelopeUp = s.EnvelopePace, s.EnvelopeUp
	ch.envelopeCounter, ch.envelopeLatched = s.EnvelopeCounter, s.EnvelopeLatched
	ch.period, ch.lengthEnable, ch.freqTimer = s.Period, s.LengthEnable, s.FreqTimer
	ch.dutyStep, ch.waveIndex, ch.noiseTimer = s.DutyStep, s.WaveIndex, s.NoiseTimer
	ch.lfsr, ch.use7bitLFSR, ch.shift, ch.divider = s.LFSR, s.Use7BitLFSR, s.Shift, s.Divider
}

// Snapshot is the APU's serializable state, part of the whole-machine
// snapshot. The pending-sample accumulation buffer and the Sink itself
// are deliberately excluded: the sink is a non-serializable callback
// re-attached by the caller, and a partially filled sample buffer is
// reproducible by continuing to run from the restored clock/register
// state.
type Snapshot struct {
	Enabled bool
	Ch      [4]ChannelSnapshot

	VolLeft, VolRight uint8
	VinLeft, VinRight bool

	Step      int
	SeqCycles int
	WaveRAM   [waveRAMSize]uint8

	NR10, NR11, NR12, NR13, NR14 uint8
	NR21, NR22, NR23, NR24       uint8
	NR30, NR31, NR32, NR33, NR34 uint8
	NR41, NR42, NR43, NR44       uint8
	NR50, NR51, NR52             uint8

	MixLeftAcc, MixRightAcc int64
	MixAccumClocks          int
	ResampleAcc             float64
}

// Snapshot captures the APU's entire register/channel/sequencer state.
func (a *APU) Snapshot() Snapshot {
	s := Snapshot{
		Enabled: a.enabled, VolLeft: a.volLeft, VolRight: a.volRight,
		VinLeft: a.vinLeft, VinRight: a.vinRight,
		Step: a.step, SeqCycles: a.seqCycles, WaveRAM: a.waveRAM,
		NR10: a.NR10, NR11: a.NR11, NR12: a.NR12, NR13: a.NR13, NR14: a.NR14,
		NR21: a.NR21, NR22: a.NR22, NR23: a.NR23, NR24: a.NR24,
		NR30: a.NR30, NR31: a.NR31, NR32: a.NR32, NR33: a.NR33, NR34: a.NR34,
		NR41: a.NR41, NR42: a.NR42, NR43: a.NR43, NR44: a.NR44,
		NR50: a.NR50, NR51: a.NR51, NR52: a.NR52,
		MixLeftAcc: a.mixLeftAcc, MixRightAcc: a.mixRightAcc,
		MixAccumClocks: a.mixAccumClocks, ResampleAcc: a.resampleAcc,
	}
	for i := range a.ch {
		s.Ch[i] = a.ch[i].snapshot()
	}
	return s
}

// Restore replaces the APU's state with a previously captured Snapshot.
// The sink attached via SetSink, if any, is left untouched.
func (a *APU) Restore(s Snapshot) {
	a.enabled, a.volLeft, a.volRight = s.Enabled, s.VolLeft, s.VolRight
	a.vinLeft, a.vinRight = s.VinLeft, s.VinRight
	a.step, a.seqCycles, a.waveRAM = s.Step, s.SeqCycles, s.WaveRAM
	a.NR10, a.NR11, a.NR12, a.NR13, a.NR14 = s.NR10, s.NR11, s.NR12, s.NR13, s.NR14
	a.NR21, a.NR22, a.NR23, a.NR24 = s.NR21, s.NR22, s.NR23, s.NR24
	a.NR30, a.NR31, a.NR32, a.NR33, a.NR34 = s.NR30, s.NR31, s.NR32, s.NR33, s.NR34
	a.NR41, a.NR42, a.NR43, a.NR44 = s.NR41, s.NR42, s.NR43, s.NR44
	a.NR50, a.NR51, a.NR52 = s.NR50, s.NR51, s.NR52
	a.mixLeftAcc, a.mixRightAcc = s.MixLeftAcc, s.MixRightAcc
	a.mixAccumClocks, a.resampleAcc = s.MixAccumClocks, s.ResampleAcc
	for i := range a.ch {
		a.ch[i].restore(s.Ch[i])
	}
}
