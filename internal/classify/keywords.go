package classify

import "strings"

// Location whitelist, partitioned into buckets. Matching is case-insensitive;
// short ASCII keywords (<=3 chars) only match on word boundaries so "us"
// never fires inside "business".
type bucket int

const (
	bucketGlobal bucket = iota
	bucketMainland
	bucketGreaterChina
	bucketAPAC
	bucketOverseas
)

var locationBuckets = map[bucket][]string{
	bucketGlobal: {
		"global", "worldwide", "anywhere", "全球", "不限地点",
	},
	bucketMainland: {
		"china", "beijing", "shanghai", "shenzhen", "guangzhou", "hangzhou",
		"chengdu", "wuhan", "nanjing", "suzhou", "xiamen",
		"中国", "国内", "大陆", "北京", "上海", "深圳", "广州", "杭州", "成都",
		"武汉", "南京", "苏州", "厦门",
	},
	bucketGreaterChina: {
		"hong kong", "hk", "taiwan", "taipei", "macau",
		"香港", "台湾", "台北", "澳门", "大中华",
	},
	bucketAPAC: {
		"singapore", "japan", "tokyo", "osaka", "korea", "seoul",
		"australia", "sydney", "melbourne", "india", "bangalore",
		"新加坡", "日本", "东京", "韩国", "首尔", "澳大利亚", "悉尼", "印度",
	},
	bucketOverseas: {
		"overseas", "us", "usa", "united states", "uk", "united kingdom",
		"canada", "toronto", "vancouver", "germany", "berlin", "munich",
		"france", "paris", "netherlands", "amsterdam", "london", "dublin",
		"new york", "san francisco", "seattle", "austin", "boston", "europe",
		"dubai", "海外", "美国", "英国", "加拿大", "德国", "法国", "荷兰",
		"伦敦", "纽约", "旧金山", "西雅图", "欧洲", "迪拜",
	},
}

// matchKeyword reports whether text (already lowercased) mentions kw.
func matchKeyword(text, kw string) bool {
	kw = strings.ToLower(kw)
	if isShortASCII(kw) {
		return containsWord(text, kw)
	}
	return strings.Contains(text, kw)
}

func isShortASCII(kw string) bool {
	if len(kw) > 3 {
		return false
	}
	for i := 0; i < len(kw); i++ {
		if kw[i] >= 0x80 {
			return false
		}
	}
	return true
}

// containsWord is a word-boundary substring check over ASCII alphanumerics.
func containsWord(text, kw string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		before := i == 0 || !isWordByte(text[i-1])
		afterIdx := i + len(kw)
		after := afterIdx >= len(text) || !isWordByte(text[afterIdx])
		if before && after {
			return true
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func bucketHits(text string) map[bucket]int {
	low := strings.ToLower(text)
	hits := make(map[bucket]int)
	for b, kws := range locationBuckets {
		for _, kw := range kws {
			if matchKeyword(low, kw) {
				hits[b]++
			}
		}
	}
	return hits
}

// IsValidLocation reports whether the span mentions at least one whitelisted
// location keyword from any bucket.
func IsValidLocation(span string) bool {
	return len(bucketHits(span)) > 0
}
