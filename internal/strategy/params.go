package strategy

// Params holds the configuration of every strategy. Unset YAML keys keep
// the values from DefaultParams.
type Params struct {
	RSIEMA        RSIEMAConfig        `yaml:"rsi_ema"`
	BollingerRSI  BollingerRSIConfig  `yaml:"bollinger_rsi"`
	TrendPullback TrendPullbackConfig `yaml:"trend_pullback"`
	TimeBreakout  TimeBreakoutConfig  `yaml:"time_breakout"`
	Ichimoku      IchimokuConfig      `yaml:"ichimoku"`
	Harmonic      HarmonicConfig      `yaml:"harmonic"`
	Divergence    DivergenceConfig    `yaml:"divergence"`
	MACrossover   MACrossoverConfig   `yaml:"ma_crossover"`
}

type RSIEMAConfig struct {
	RSIPeriod int     `yaml:"rsi_period"`
	EMAPeriod int     `yaml:"ema_period"`
	BuyLevel  float64 `yaml:"rsi_buy"`
	SellLevel float64 `yaml:"rsi_sell"`
}

type BollingerRSIConfig struct {
	BBPeriod  int     `yaml:"bb_period"`
	BBStd     float64 `yaml:"bb_std"`
	RSIPeriod int     `yaml:"rsi_period"`
	BuyLevel  float64 `yaml:"rsi_buy"`
	SellLevel float64 `yaml:"rsi_sell"`
}

type TrendPullbackConfig struct {
	EMAShort     int     `yaml:"ema_short"`
	EMALong      int     `yaml:"ema_long"`
	RSIPeriod    int     `yaml:"rsi_period"`
	RSIThreshold float64 `yaml:"rsi_threshold"`
}

type TimeBreakoutConfig struct {
	RangeStart        string  `yaml:"range_start"` // "15:04"
	RangeEnd          string  `yaml:"range_end"`
	BreakoutThreshold float64 `yaml:"breakout_threshold"` // multiple of ATR
	VolumeFactor      float64 `yaml:"volume_factor"`
	ATRPeriod         int     `yaml:"atr_period"`
	VolumePeriod      int     `yaml:"volume_period"`
}

type IchimokuConfig struct {
	TenkanPeriod  int `yaml:"tenkan_period"`
	KijunPeriod   int `yaml:"kijun_period"`
	SenkouBPeriod int `yaml:"senkou_b_period"`
	Displacement  int `yaml:"displacement"`
}

type HarmonicConfig struct {
	MinSwing    int     `yaml:"min_swing"` // minimum X..D span in bars
	Tolerance   float64 `yaml:"tolerance"`
	RSIPeriod   int     `yaml:"rsi_period"`
	SwingWindow int     `yaml:"swing_window"`
	Oversold    float64 `yaml:"oversold"`
	Overbought  float64 `yaml:"overbought"`
}

type DivergenceConfig struct {
	RSIPeriod     int     `yaml:"rsi_period"`
	Window        int     `yaml:"window"` // max distance between price and RSI extrema
	BBPeriod      int     `yaml:"bb_period"`
	BBStd         float64 `yaml:"bb_std"`
	ExtremaWindow int     `yaml:"extrema_window"`
}

type MACrossoverConfig struct {
	ShortPeriod int `yaml:"short_period"`
	LongPeriod  int `yaml:"long_period"`
	RSIPeriod   int `yaml:"rsi_period"`
}

// DefaultParams returns the documented defaults for every strategy.
func DefaultParams() Params {
	return Params{
		RSIEMA:        RSIEMAConfig{RSIPeriod: 14, EMAPeriod: 50, BuyLevel: 40, SellLevel: 70},
		BollingerRSI:  BollingerRSIConfig{BBPeriod: 20, BBStd: 2, RSIPeriod: 14, BuyLevel: 30, SellLevel: 70},
		TrendPullback: TrendPullbackConfig{EMAShort: 50, EMALong: 200, RSIPeriod: 14, RSIThreshold: 40},
		TimeBreakout: TimeBreakoutConfig{
			RangeStart: "09:30", RangeEnd: "10:00",
			BreakoutThreshold: 0.5, VolumeFactor: 1.5,
			ATRPeriod: 14, VolumePeriod: 20,
		},
		Ichimoku:    IchimokuConfig{TenkanPeriod: 9, KijunPeriod: 26, SenkouBPeriod: 52, Displacement: 26},
		Harmonic:    HarmonicConfig{MinSwing: 10, Tolerance: 0.05, RSIPeriod: 14, SwingWindow: 5, Oversold: 30, Overbought: 70},
		Divergence:  DivergenceConfig{RSIPeriod: 14, Window: 10, BBPeriod: 20, BBStd: 2, ExtremaWindow: 5},
		MACrossover: MACrossoverConfig{ShortPeriod: 9, LongPeriod: 21, RSIPeriod: 14},
	}
}
