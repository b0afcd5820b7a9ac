package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/gomag/InputParameters"
	"github.com/notargets/gomag/utils"
)

func TestDeckParse(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Cells: 8
EdgeLo: 8.
EdgeHi: 9.
ExchangeA: 1.
AnisotropyK: 0.1
EasyAxis: [0., 0., 1.]
Ms: 1.
UseDemag: true
Tolerance: 1.e-5
SearchTolerance: 0.05
MaxIterations: 10000
`)
	input := InputParameters.Defaults()
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Cells, 8)
	assert.Equal(t, input.AnisotropyK, 0.1)
	assert.Equal(t, input.EasyAxis, [3]float64{0, 0, 1})
	input.Print()
	assert.Equal(t, input.SearchTolerance, 0.05)
	// unset keys keep their defaults
	assert.Equal(t, input.ScanPoints, 4)
	assert.Equal(t, input.LogFrequency, 100)

	p := paramsFromDeck(input)
	assert.Equal(t, p.CellsPerEdge, 8)
	assert.Equal(t, p.EasyAxis, utils.Vec3{0, 0, 1})
	assert.Equal(t, p.UseDemag, true)
}
