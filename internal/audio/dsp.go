package audio

// Silence returns ms milliseconds of silence at the working sample rate.
func Silence(ms float64) []float32 {
	n := int(ms * SampleRate / 1000)
	if n <= 0 {
		return nil
	}

	return make([]float32, n)
}

// Concat joins segments into one contiguous sample stream.
func Concat(segments ...[]float32) []float32 {
	total := 0
	for _, s := range segments {
		total += len(s)
	}

	out := make([]float32, 0, total)
	for _, s := range segments {
		out = append(out, s...)
	}

	return out
}

// Gain scales samples in place by factor and returns them.
func Gain(samples []float32, factor float64) []float32 {
	for i := range samples {
		samples[i] = float32(float64(samples[i]) * factor)
	}

	return samples
}

// FadeOut applies a linear fade-out ramp over the final ms milliseconds.
func FadeOut(samples []float32, ms float64) []float32 {
	n := int(ms * SampleRate / 1000)
	if n <= 0 || len(samples) == 0 {
		return samples
	}
	if n > len(samples) {
		n = len(samples)
	}

	start := len(samples) - n
	for i := 0; i < n; i++ {
		ramp := float32(n-i) / float32(n)
		samples[start+i] *= ramp
	}

	return samples
}

// MixLoop mixes bed under speech at the given gain, looping the bed as
// needed to cover the full length of speech. The sum is clamped to [-1, 1].
// An empty bed or non-positive gain leaves speech untouched; bed itself is
// never modified.
func MixLoop(speech, bed []float32, gain float64) []float32 {
	if len(bed) == 0 || gain <= 0 {
		return speech
	}

	scaled := Gain(append([]float32(nil), bed...), gain)

	for i := range speech {
		mixed := float64(speech[i]) + float64(scaled[i%len(scaled)])
		if mixed > 1 {
			mixed = 1
		}
		if mixed < -1 {
			mixed = -1
		}
		speech[i] = float32(mixed)
	}

	return speech
}
