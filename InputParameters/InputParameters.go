package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file. Lengths are in exchange
// length units, energies in Km units; ExchangeA is therefore 1 and
// AnisotropyK the reduced constant K/Km unless a deck overrides them.
type Parameters struct {
	Title           string     `yaml:"Title"`
	Cells           int        `yaml:"Cells"` // cells per cube edge
	EdgeLo          float64    `yaml:"EdgeLo"`
	EdgeHi          float64    `yaml:"EdgeHi"`
	ScanPoints      int        `yaml:"ScanPoints"`
	ExchangeA       float64    `yaml:"ExchangeA"`
	AnisotropyK     float64    `yaml:"AnisotropyK"`
	EasyAxis        [3]float64 `yaml:"EasyAxis"`
	Ms              float64    `yaml:"Ms"`
	AppliedField    [3]float64 `yaml:"AppliedField"` // reduced H/Ms
	UseDemag        bool       `yaml:"UseDemag"`
	Tolerance       float64    `yaml:"Tolerance"`
	SearchTolerance float64    `yaml:"SearchTolerance"`
	MaxIterations   int        `yaml:"MaxIterations"`
	LogFrequency    int        `yaml:"LogFrequency"`
}

// Defaults returns a deck preloaded with the standard cube problem.
func Defaults() *Parameters {
	return &Parameters{
		Title:           "standard cube problem",
		Cells:           16,
		EdgeLo:          8,
		EdgeHi:          9,
		ScanPoints:      4,
		ExchangeA:       1,
		AnisotropyK:     0.1,
		EasyAxis:        [3]float64{0, 0, 1},
		Ms:              1,
		UseDemag:        true,
		Tolerance:       1.e-5,
		SearchTolerance: 0.05,
		MaxIterations:   20000,
		LogFrequency:    100,
	}
}

func (ip *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= Cells per edge\n", ip.Cells)
	fmt.Printf("%8.5f\t\t= EdgeLo\n", ip.EdgeLo)
	fmt.Printf("%8.5f\t\t= EdgeHi\n", ip.EdgeHi)
	fmt.Printf("[%d]\t\t\t= ScanPoints\n", ip.ScanPoints)
	fmt.Printf("%8.5f\t\t= ExchangeA\n", ip.ExchangeA)
	fmt.Printf("%8.5f\t\t= AnisotropyK\n", ip.AnisotropyK)
	fmt.Printf("%v\t= EasyAxis\n", ip.EasyAxis)
	fmt.Printf("%8.5f\t\t= Ms\n", ip.Ms)
	fmt.Printf("%v\t= AppliedField\n", ip.AppliedField)
	fmt.Printf("[%v]\t\t\t= UseDemag\n", ip.UseDemag)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("%8.5f\t\t= SearchTolerance\n", ip.SearchTolerance)
	fmt.Printf("[%d]\t\t= MaxIterations\n", ip.MaxIterations)
}
