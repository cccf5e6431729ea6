package project

// FileConfig 项目配置文件（config.json / config.yaml）
//
//	{
//	  "members": {"Alice Smith": "alice"},
//	  "vacations": [{"date": "03/20/2024", "type": "PH"}],
//	  "date_format": "mm/dd/YYYY"
//	}
type FileConfig struct {
	Members    map[string]string `json:"members" yaml:"members"` // 全名 -> 昵称
	Vacations  []VacationConfig  `json:"vacations" yaml:"vacations"`
	DateFormat string            `json:"date_format" yaml:"date_format"`
}

// VacationConfig 假期配置项
type VacationConfig struct {
	Date string `json:"date" yaml:"date"`
	Type string `json:"type" yaml:"type"`
}
