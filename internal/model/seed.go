package model

// SeedEntry は新規ユーザーに配布する初期単語
type SeedEntry struct {
	Prefix  string
	Suffix  string
	English string
	Chinese string
}

// SeedVocabulary は初回ログイン時に所有者ごとに1件ずつ作成される
var SeedVocabulary = []SeedEntry{
	{Prefix: PrefixPre, English: "predict", Chinese: "預測"},
	{Prefix: PrefixPre, English: "prepare", Chinese: "準備"},
	{Prefix: PrefixPre, English: "prevent", Chinese: "防止"},
	{Prefix: PrefixUn, English: "undo", Chinese: "撤銷"},
	{Prefix: PrefixUn, English: "unlike", Chinese: "不像"},
	{Prefix: PrefixUn, English: "unaware", Chinese: "未察覺"},
	{Suffix: SuffixTion, English: "education", Chinese: "教育"},
	{Suffix: SuffixTion, English: "information", Chinese: "資訊"},
	{Suffix: SuffixTion, English: "solution", Chinese: "解決方案"},
	{Suffix: SuffixAble, English: "comfortable", Chinese: "舒適的"},
	{Suffix: SuffixAble, English: "reliable", Chinese: "可靠的"},
	{Suffix: SuffixAble, English: "available", Chinese: "可用的"},
}
