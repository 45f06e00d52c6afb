// Package synthesis 将提示词与参数集合成 OpenSCAD 源码
package synthesis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var wordRe = regexp.MustCompile(`\w+`)

// 提示词中无信息量的常见词
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "for": true, "with": true, "without": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"create": true, "make": true, "generate": true, "model": true,
}

// modelNameFromPrompt 从提示词派生模型文件名
// 取前三个有意义的词，附 uuid 片段保证唯一
func modelNameFromPrompt(prompt string) string {
	id := uuid.New()
	suffix := fmt.Sprintf("%x", id[:3])

	var words []string
	for _, word := range wordRe.FindAllString(strings.ToLower(prompt), -1) {
		if stopWords[word] || len(word) <= 2 {
			continue
		}
		words = append(words, word)
		if len(words) == 3 {
			break
		}
	}

	if len(words) == 0 {
		return "model_" + suffix
	}
	return strings.Join(words, "_") + "_" + suffix
}
