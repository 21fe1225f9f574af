package audio

// Timing constants.
const (
	// cyclesPerStep is the number of processor clocks per frame-sequencer
	// tick: the sequencer runs at 512Hz, 4194304/512 = 8192.
	cyclesPerStep = 8192

	waveRAMSize = 16

	// SampleRate is the output sample rate in Hz.
	SampleRate = 48000
	// Samples is the number of stereo frames accumulated before a flush
	// to the Sink.
	Samples = 512
)

var noiseDividers = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

var dutyPatterns = [4][8]int64{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}
