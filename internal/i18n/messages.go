package i18n

var english = map[string]string{
	"app.title": "skillcast: share agent skills across projects",

	"init.created":   "Created config at %s",
	"init.exists":    "Config already exists at %s",
	"init.storage":   "Source storage: %s",
	"init.next":      "Next steps:",
	"init.hint.add":  "  skillcast source add <url|path>   register a skill source",
	"init.hint.list": "  skillcast discover                list available skills",
	"init.hint.use":  "  skillcast use <source>/<skill>    activate a skill in this project",

	"source.header":    "Registered sources:",
	"source.none":      "No sources registered. Add one with: skillcast source add <url|path>",
	"source.cloning":   "Cloning %s...",
	"source.added":     "Added source %s (%s)",
	"source.refreshed": "Source %s is already registered; refreshed",
	"source.removing":  "Removing source %s...",
	"source.unlinked":  "Removed %d linked skill(s)",
	"source.removed":   "Removed source %s",
	"source.pick":      "Select a source",
	"source.pick.rm":   "Select a source to remove",

	"sync.header":  "Syncing sources...",
	"sync.updated": "%s updated",
	"sync.failed":  "%s could not be updated: %v",
	"sync.local":   "%s is a local source",
	"sync.missing": "%s is missing from storage (run: skillcast source add again)",
	"sync.orphan":  "%s points to a missing skill; left in place",
	"sync.done":    "Sync complete: %d skill(s) relinked",

	"discover.header": "Skills in %s:",
	"discover.none":   "No skills found in %s",

	"use.linked":   "Linked %s into %s",
	"use.copied":   "Copied %s into %s",
	"use.present":  "%s already exists in %s, skipped",
	"use.absent":   "No %s folder in this project, skipped",
	"use.failed":   "%s failed for %s: %v",
	"use.done":     "Activated %s for %d agent(s)",
	"use.pick":     "Select skills from %s",
	"use.agents":   "Select agents",
	"use.noskills": "Source %s has no skills",

	"list.header": "Project skills:",
	"list.agent":  "%s (%s)",
	"list.linked": "(%s)",
	"list.copy":   "(local copy)",
	"list.none":   "No skills active in this project. Activate one with: skillcast use <source>/<skill>",

	"remove.done":  "Removed %s from %s",
	"remove.pick":  "Select skills to remove",
	"remove.none":  "No skills to remove",
	"remove.force": "%s in %s is a copy; use --force to delete it",

	"config.path":     "Config file: %s",
	"config.lang.set": "Language set to %s",

	"warning":         "Warning: %v",
	"error.needs.arg": "%s needs an argument when not run in a terminal",
}

var korean = map[string]string{
	"app.title": "skillcast: 프로젝트 간 에이전트 스킬 공유",

	"init.created":   "설정 파일을 생성했습니다: %s",
	"init.exists":    "설정 파일이 이미 있습니다: %s",
	"init.storage":   "소스 저장소: %s",
	"init.next":      "다음 단계:",
	"init.hint.add":  "  skillcast source add <url|path>   스킬 소스 등록",
	"init.hint.list": "  skillcast discover                사용 가능한 스킬 보기",
	"init.hint.use":  "  skillcast use <source>/<skill>    이 프로젝트에서 스킬 활성화",

	"source.header":    "등록된 소스:",
	"source.none":      "등록된 소스가 없습니다. 추가: skillcast source add <url|path>",
	"source.cloning":   "%s 복제 중...",
	"source.added":     "소스 %s 추가됨 (%s)",
	"source.refreshed": "소스 %s 는 이미 등록되어 있어 새로 고쳤습니다",
	"source.removing":  "소스 %s 제거 중...",
	"source.unlinked":  "연결된 스킬 %d개를 제거했습니다",
	"source.removed":   "소스 %s 제거됨",
	"source.pick":      "소스를 선택하세요",
	"source.pick.rm":   "제거할 소스를 선택하세요",

	"sync.header":  "소스 동기화 중...",
	"sync.updated": "%s 업데이트됨",
	"sync.failed":  "%s 업데이트 실패: %v",
	"sync.local":   "%s 는 로컬 소스입니다",
	"sync.missing": "%s 가 저장소에 없습니다 (skillcast source add 로 다시 추가하세요)",
	"sync.orphan":  "%s 의 대상 스킬이 없습니다. 그대로 둡니다",
	"sync.done":    "동기화 완료: 스킬 %d개 다시 연결됨",

	"discover.header": "%s 의 스킬:",
	"discover.none":   "%s 에서 스킬을 찾지 못했습니다",

	"use.linked":   "%s 를 %s 에 연결했습니다",
	"use.copied":   "%s 를 %s 에 복사했습니다",
	"use.present":  "%s 가 %s 에 이미 있어 건너뜁니다",
	"use.absent":   "이 프로젝트에 %s 폴더가 없어 건너뜁니다",
	"use.failed":   "%s 활성화 실패 (%s): %v",
	"use.done":     "%s 를 에이전트 %d개에 활성화했습니다",
	"use.pick":     "%s 에서 스킬을 선택하세요",
	"use.agents":   "에이전트를 선택하세요",
	"use.noskills": "소스 %s 에 스킬이 없습니다",

	"list.header": "프로젝트 스킬:",
	"list.agent":  "%s (%s)",
	"list.linked": "(%s)",
	"list.copy":   "(로컬 복사본)",
	"list.none":   "이 프로젝트에 활성화된 스킬이 없습니다. 활성화: skillcast use <source>/<skill>",

	"remove.done":  "%s 를 %s 에서 제거했습니다",
	"remove.pick":  "제거할 스킬을 선택하세요",
	"remove.none":  "제거할 스킬이 없습니다",
	"remove.force": "%s (%s) 는 복사본입니다. 삭제하려면 --force 를 사용하세요",

	"config.path":     "설정 파일: %s",
	"config.lang.set": "언어가 %s 로 설정되었습니다",

	"warning":         "경고: %v",
	"error.needs.arg": "터미널이 아닌 환경에서는 %s 에 인자가 필요합니다",
}
