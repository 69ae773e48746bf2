// Package linkbudget evaluates one concrete link realization: received
// power, thermal noise, SNR and Shannon capacity. Everything here is a pure
// function of its inputs.
package linkbudget

import (
	"math"

	"github.com/nfvri/thz-link-simulator/pkg/model"
)

// SNRFloorDB is reported instead of -Inf when the linear SNR degenerates to
// zero or below; it signals a negligible link, not a computation error.
const SNRFloorDB = -100.0

// Params are the receiver-chain inputs to one evaluation.
type Params struct {
	TxPowerDBm    float64
	NoiseFigureDB float64
	BandwidthGHz  float64
}

// Sample is the output of one trial.
type Sample struct {
	CapacityGbps float64
	SNRDB        float64
	RxPowerDBm   float64
}

// Evaluate computes the link budget for one realization. Capacity is the
// Shannon bound over the full bandwidth with no margin; a non-positive SNR
// yields zero capacity and the SNR floor sentinel.
func Evaluate(p Params, txGainDBI, rxGainDBI, totalLossDB, temperatureK float64) Sample {
	rxPowerDBm := p.TxPowerDBm + txGainDBI + rxGainDBI - totalLossDB
	rxPowerW := math.Pow(10, rxPowerDBm/10) / 1000

	bandwidthHz := p.BandwidthGHz * 1e9
	noiseW := model.BoltzmannConstant * temperatureK * bandwidthHz *
		math.Pow(10, p.NoiseFigureDB/10)

	snr := rxPowerW / noiseW

	snrDB := SNRFloorDB
	capacityGbps := 0.0
	if snr > 0 {
		snrDB = 10 * math.Log10(snr)
		capacityGbps = bandwidthHz * math.Log2(1+snr) / 1e9
	}

	return Sample{
		CapacityGbps: capacityGbps,
		SNRDB:        snrDB,
		RxPowerDBm:   rxPowerDBm,
	}
}
