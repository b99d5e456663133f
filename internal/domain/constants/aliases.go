package constants

import "github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"

// PreferredTypeOrder listing order of product type groups; unknown types follow in encounter order
var PreferredTypeOrder = []string{"水果", "蔬菜", "花卉", "雜糧", "其他"}

// DefaultAliases built-in alias tables; each section present in ALIASES_FILE replaces its default
func DefaultAliases() entity.AliasConfig {
	return entity.AliasConfig{
		Crops: []entity.CropAlias{
			{Colloquial: "芭樂", Canonical: "番石榴"},
			{Colloquial: "旺來", Canonical: "鳳梨"},
			{Colloquial: "菠蘿", Canonical: "鳳梨"},
			{Colloquial: "釋迦", Canonical: "番荔枝"},
			{Colloquial: "蕃茄", Canonical: "番茄"},
			{Colloquial: "火龍果", Canonical: "紅龍果"},
			{Colloquial: "奇異果", Canonical: "獼猴桃"},
			{Colloquial: "哈密瓜", Canonical: "洋香瓜"},
			{Colloquial: "地瓜", Canonical: "甘藷"},
			{Colloquial: "番薯", Canonical: "甘藷"},
			{Colloquial: "蕃薯", Canonical: "甘藷"},
			{Colloquial: "高麗菜", Canonical: "甘藍"},
			{Colloquial: "大白菜", Canonical: "結球白菜"},
			{Colloquial: "花生", Canonical: "落花生"},
		},
		Regions: []entity.RegionAlias{
			{Short: "台北", Counties: []string{"臺北市"}},
			{Short: "臺北", Counties: []string{"臺北市"}},
			{Short: "新北", Counties: []string{"新北市"}},
			{Short: "基隆", Counties: []string{"基隆市"}},
			{Short: "桃園", Counties: []string{"桃園市"}},
			{Short: "新竹", Counties: []string{"新竹市", "新竹縣"}},
			{Short: "苗栗", Counties: []string{"苗栗縣"}},
			{Short: "台中", Counties: []string{"臺中市"}},
			{Short: "臺中", Counties: []string{"臺中市"}},
			{Short: "彰化", Counties: []string{"彰化縣"}},
			{Short: "南投", Counties: []string{"南投縣"}},
			{Short: "雲林", Counties: []string{"雲林縣"}},
			{Short: "嘉義", Counties: []string{"嘉義市", "嘉義縣"}},
			{Short: "台南", Counties: []string{"臺南市"}},
			{Short: "臺南", Counties: []string{"臺南市"}},
			{Short: "高雄", Counties: []string{"高雄市"}},
			{Short: "屏東", Counties: []string{"屏東縣"}},
			{Short: "宜蘭", Counties: []string{"宜蘭縣"}},
			{Short: "花蓮", Counties: []string{"花蓮縣"}},
			{Short: "台東", Counties: []string{"臺東縣"}},
			{Short: "臺東", Counties: []string{"臺東縣"}},
			{Short: "澎湖", Counties: []string{"澎湖縣"}},
			{Short: "金門", Counties: []string{"金門縣"}},
			{Short: "馬祖", Counties: []string{"連江縣"}},
			{Short: "連江", Counties: []string{"連江縣"}},
		},
		TypeKeywords: []string{"水果", "蔬菜", "花卉", "雜糧", "其他"},
		// no bare "花": it would fire on 花蓮
		TypeSynonyms: []entity.TypeAlias{
			{Synonym: "果類", Canonical: "水果"},
			{Synonym: "青菜", Canonical: "蔬菜"},
			{Synonym: "菜類", Canonical: "蔬菜"},
			{Synonym: "鮮花", Canonical: "花卉"},
			{Synonym: "花朵", Canonical: "花卉"},
			{Synonym: "穀物", Canonical: "雜糧"},
			{Synonym: "穀類", Canonical: "雜糧"},
			{Synonym: "糧食", Canonical: "雜糧"},
		},
	}
}
