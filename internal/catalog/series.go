package catalog

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var seriesIndexRe = regexp.MustCompile(`unsplash(\d+)\.[a-zA-Z0-9]+$`)

// Series 是一组被认为来自同一次拍摄的图片。
type Series struct {
	Key    string   `json:"key"`
	Images []string `json:"images"`
}

// SeriesKey 从文件名推导系列键：取前两个以连字符分隔的片段。
//
// 例如 "/products/_pool/mitchell-luo-dH20XDNJsN8-unsplash1.jpg" -> "mitchell-luo"。
// 片段不足两个时返回去掉扩展名的文件名。
func SeriesKey(imagePath string) string {
	name := strings.TrimSuffix(path.Base(imagePath), path.Ext(imagePath))
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(name, "-") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return name
}

// SeriesIndex 返回文件名中 "unsplash<N>" 的 N，不存在时为 0。
func SeriesIndex(imagePath string) int {
	m := seriesIndexRe.FindStringSubmatch(path.Base(imagePath))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// DetectSeries 按系列键划分图片池。
//
// 系列的顺序是其键在图片池中首次出现的顺序；系列内部按 SeriesIndex 升序，
// 相同时按完整路径字典序。
func DetectSeries(pool []string) []Series {
	order := make([]string, 0, len(pool))
	byKey := make(map[string][]string, len(pool))
	for _, img := range pool {
		key := SeriesKey(img)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], img)
	}

	out := make([]Series, 0, len(order))
	for _, key := range order {
		images := byKey[key]
		sort.SliceStable(images, func(i, j int) bool {
			di, dj := SeriesIndex(images[i]), SeriesIndex(images[j])
			if di != dj {
				return di < dj
			}
			return images[i] < images[j]
		})
		out = append(out, Series{Key: key, Images: images})
	}
	return out
}
