// Package param models host-automatable pedal parameters as lock-free atomic
// scalars. A UI or host thread is the single writer; the audio thread reads
// each value once per sample or per block. Only eventual consistency is
// required, so no mutexes are involved.
package param
