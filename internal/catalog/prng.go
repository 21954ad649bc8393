package catalog

// prng 把整数种子映射到 [0,1) 区间。
//
// 使用 splitmix64 的终结函数，结果只依赖 seed，跨平台一致。
func prng(seed int) float64 {
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	// 取高 53 位，保证能精确表示为 float64
	return float64(z>>11) / (1 << 53)
}

// pick 返回 list[seed mod len(list)]，负数种子按欧几里得取模处理。
func pick[T any](list []T, seed int) T {
	return list[mod(seed, len(list))]
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
