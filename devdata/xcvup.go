package devdata

import "regexp"

// XCVUP returns the device data for the UltraScale+ VU parts (xcvu3p and
// siblings).
//
// PIP wirelengths follow Table 1 of "An Open-source Lightweight Timing
// Model for RapidWright" (Maidee et al., FPT'19); all classes share the
// same integer unit.
//
// DSP macros contain optional pipelining registers whose state lives in
// the logical netlist; every DSP BEL with a CLK pin is optimistically
// treated as fully sequential.
func XCVUP() *DeviceData {
	return &DeviceData{
		Cells: map[string]Connectivity{
			// sequential
			"FDRE": SequentialCell(),
			"FDCE": SequentialCell(),
			"FDSE": SequentialCell(),
			"FDPE": SequentialCell(),

			"SRL16E":  srl16e(),
			"SRLC32E": srlc32e(),

			"RAMD32": ram32(),
			"RAMS32": ram32(),

			"RAMD64E": ram64e(),
			"RAMS64E": ram64e(),

			"RAMB36E2": SequentialCell(),
			"RAMB18E2": SequentialCell(),
			"FIFO18E2": SequentialCell(),

			"MMCME4_ADV": SequentialCell(),

			"URAM288": SequentialCell(),

			"GTYE4_CHANNEL": SequentialCell(),
			"GTYE4_COMMON":  SequentialCell(),
			"PCIE40E4":      SequentialCell(),
			"CMACE4":        SequentialCell(),

			"STARTUPE3": SequentialCell(),
			"ICAPE3":    SequentialCell(),

			// combinatorial
			"LUT1": CombinatorialCell(),
			"LUT2": CombinatorialCell(),
			"LUT3": CombinatorialCell(),
			"LUT4": CombinatorialCell(),
			"LUT5": CombinatorialCell(),
			"LUT6": CombinatorialCell(),

			"CARRY8": carry8(),

			"MUXF7": CombinatorialCell(),
			"MUXF8": CombinatorialCell(),
			"MUXF9": CombinatorialCell(),

			"IBUFCTRL":    CombinatorialCell(),
			"INBUF":       CombinatorialCell(),
			"OBUFT":       CombinatorialCell(),
			"DIFFINBUF":   CombinatorialCell(),
			"IBUFDS_GTE4": CombinatorialCell(),

			"DSP_A_B_DATA":    SequentialCell(),
			"DSP_C_DATA":      SequentialCell(),
			"DSP_M_DATA":      SequentialCell(),
			"DSP_PREADD_DATA": SequentialCell(),
			"DSP_OUTPUT":      SequentialCell(),
			"DSP_ALU":         SequentialCell(),
			"DSP_MULTIPLIER":  CombinatorialCell(),
			"DSP_PREADD":      CombinatorialCell(),
		},

		Pips: []PipClass{
			// intra-tile (zero wirelength)
			// INT tiles
			{fullMatch(`LOGIC_OUTS_[LR]\d{1,2}`), 0},
			{fullMatch(`INT_NODE_SDQ_\d{1,2}_INT_OUT[01]`), 0},
			{fullMatch(`INT_NODE_IMUX_\d{1,2}_INT_OUT[01]`), 0},
			{fullMatch(`INT_INT_SDQ_\d{1,2}_INT_OUT[01]`), 0},
			{fullMatch(`INT_NODE_GLOBAL_\d{1,2}_INT_OUT[01]`), 0},
			{fullMatch(`IMUX_[EW]\d{1,2}`), 0},
			{fullMatch(`IMUX(_CMT)?(_XIPHY\d{1,2})?`), 0},
			{fullMatch(`IMUXOUT\d{1,2}`), 0},
			{fullMatch(`CTRL_[EW][0-9]`), 0},
			{fullMatch(`CLE_CLE_[LM]_SITE_0_[A-H](_O|MUX|Q(2)?)`), 0},
			{fullMatch(`BYPASS_[EW]\d{1,2}`), 0},
			{fullMatch(`BOUNCE_[EW]_\d{1,2}_FT[01]`), 0},
			{fullMatch(`INODE_[EW]_\d{1,2}_FT[01]`), 0},
			{fullMatch(`SDQNODE_[EW]_\d{1,2}_FT[01]`), 0},
			// LAG_LAG tiles
			{fullMatch(`LAG_MUX_ATOM_\d{1,2}_TXOUT`), 0},
			// In multi-SLR devices UBUMP wires cross the SLR; on the
			// single-SLR xcvu3p they can only U-turn back into the tile.
			{fullMatch(`UBUMP\d{1,2}`), 0},
			{fullMatch(`RXD\d{1,2}`), 0},

			// single horizontal
			{fullMatch(`[EW]{2}1_[EW]_BEG[0-7]`), 1},
			{fullMatch(`WW1_E_7_FT0`), 1},

			// single vertical
			{fullMatch(`[NS]{2}1_[EW]_BEG[0-7]`), 1},

			// double horizontal
			{fullMatch(`[EW]{2}2_[EW]_BEG[0-7]`), 5},

			// double vertical
			{fullMatch(`[NS]{2}2_[EW]_BEG[0-7]`), 3},

			// quad horizontal
			{fullMatch(`[EW]{2}4_[EW]_BEG[0-7]`), 10},

			// quad vertical
			{fullMatch(`[NS]{2}4_[EW]_BEG[0-7]`), 5},

			// long horizontal
			{fullMatch(`[EW]{2}12_BEG[0-7]`), 14},

			// long vertical
			{fullMatch(`[NS]{2}12_BEG[0-7]`), 12},

			// ignored (static and global routing resources)
			{fullMatch(`VCC_WIRE`), 0},
			{fullMatch(`GND_WIRE[1-3]`), 0},
			{fullMatch(`CLK_LEAF_SITES_\d_CLK_LEAF`), 0},
		},

		TileRootName: regexp.MustCompile(`(.+)_X\d+Y\d+`),

		TileTypes: map[string]bool{
			"CLEL_R":             true,
			"CLEM":               true,
			"CLEM_R":             true,
			"BRAM":               true,
			"DSP":                true,
			"XIPHY_BYTE_L":       true,
			"HPIO_L":             true,
			"CMT_L":              true,
			"URAM_URAM_FT":       true,
			"URAM_URAM_DELAY_FT": true,
			"GTY_L":              true,
			"GTY_R":              true,
			"LAG_LAG":            true,
		},

		GlobalNetDrivers: map[string]bool{
			"BUFCE":        true,
			"BUFG_GT":      true,
			"BUFG_GT_SYNC": true,
		},
	}
}

// carry8 is the CARRY8 internal-path table.
//
// TODO: the "S4S3" and "S4DI4" tokens reproduce collapsed adjacent
// literals in the upstream table; the intended entries are almost
// certainly the comma-separated pins. Fix here and upstream together.
func carry8() Connectivity {
	return TabulatedCell(map[string][]string{
		"O0":  {"CIN", "S0"},
		"CO0": {"CIN", "S0", "DI0", "AX"},
		"O1":  {"CIN", "S1", "S0", "DI0", "AX"},
		"CO1": {"CIN", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O2":  {"CIN", "S2", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO2": {"CIN", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O3":  {"CIN", "S3", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO3": {"CIN", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O4":  {"CIN", "S4S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO4": {"CIN", "S4", "DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O5":  {"CIN", "S5", "S4DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO5": {"CIN", "S5", "DI5", "FX", "S4", "DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O6":  {"CIN", "S6", "S5", "DI5", "FX", "S4DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO6": {"CIN", "S6", "DI6", "GX", "S5", "DI5", "FX", "S4", "DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"O7":  {"CIN", "S7", "S6", "DI6", "GX", "S5", "DI5", "FX", "S4DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
		"CO7": {"CIN", "S7", "DI7", "HX", "S6", "DI6", "GX", "S5", "DI5", "FX", "S4", "DI4", "EX", "S3", "DI3", "DX", "S2", "DI2", "CX", "S1", "DI1", "BX", "S0", "DI0", "AX"},
	})
}

func srl16e() Connectivity {
	return TabulatedCell(map[string][]string{
		"O5":   {"A0", "A1", "A2", "A3"},
		"O6":   {"A0", "A1", "A2", "A3"},
		"MC31": {},
	})
}

func srlc32e() Connectivity {
	return TabulatedCell(map[string][]string{
		"O6":   {"A0", "A1", "A2", "A3", "A4"},
		"MC31": {},
	})
}

func ram32() Connectivity {
	return TabulatedCell(map[string][]string{
		"O5": {"A0", "A1", "A2", "A3", "A4"},
		"O6": {"A0", "A1", "A2", "A3", "A4"},
	})
}

func ram64e() Connectivity {
	return TabulatedCell(map[string][]string{
		"O6": {"A0", "A1", "A2", "A3", "A4", "A5"},
	})
}
