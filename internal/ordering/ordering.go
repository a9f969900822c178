// Package ordering は単語一覧の表示順を決めます。
//
// 接頭辞グループ (pre-, un-) → 接尾辞グループ (-tion, -able) → 英単語 (大文字小文字を無視)
// の順に並べ、どのグループにも属さない値は各キーで最後の1つのバケットにまとめる。
// 同順位は元の並び (作成順) を保つ。
package ordering

import (
	"cmp"
	"slices"
	"strings"

	"go_vocab_quiz/internal/model"
)

var (
	prefixGroups = []string{model.PrefixPre, model.PrefixUn}
	suffixGroups = []string{model.SuffixTion, model.SuffixAble}
)

// groupIndex はグループ外の値に len(groups) を返す
func groupIndex(groups []string, value string) int {
	if i := slices.Index(groups, value); i >= 0 {
		return i
	}
	return len(groups)
}

func compare(a, b *model.Vocabulary) int {
	return cmp.Or(
		cmp.Compare(groupIndex(prefixGroups, a.Prefix), groupIndex(prefixGroups, b.Prefix)),
		cmp.Compare(groupIndex(suffixGroups, a.Suffix), groupIndex(suffixGroups, b.Suffix)),
		strings.Compare(strings.ToLower(a.English), strings.ToLower(b.English)),
	)
}

// Order は entries を並べ替えた新しいスライスを返します。入力は変更しない。
func Order(entries []*model.Vocabulary) []*model.Vocabulary {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, compare)
	return ordered
}
