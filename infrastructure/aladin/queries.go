package aladin

// Stock search queries used to seed the catalog, grouped by shelf.
// The groups skew toward leisure reading on purpose: exam-prep books
// are filtered out again at recommendation time.

var fictionQueries = []string{
	"소설", "단편", "장편", "시", "시집", "에세이",
	"사랑", "연애", "이별", "가족", "우정", "관계", "청춘", "성장", "일상", "비밀",
	"추리", "미스터리", "스릴러", "탐정", "사건", "살인", "범죄", "복수",
	"판타지", "마법", "용", "왕국", "모험", "전설",
	"SF", "우주", "미래", "로봇", "인공지능", "디스토피아",
	"공포", "괴담", "유령", "저주",
	"힐링", "위로", "눈물", "기적", "행복",
}

var humanitiesQueries = []string{
	"철학", "심리", "마음", "감정", "자존감", "불안", "우울", "행복", "관계",
	"역사", "세계사", "한국사", "전쟁", "혁명", "제국", "문명",
	"사회", "정치", "민주주의", "자본주의", "경제", "불평등",
	"인문학", "고전", "신화", "종교", "명상",
	"예술", "미술", "음악", "영화", "사진", "디자인",
}

var lifeQueries = []string{
	"습관", "루틴", "목표", "성공", "몰입", "집중", "동기", "자기관리",
	"시간", "공부", "기억", "독서", "글쓰기",
	"소통", "대화", "말하기", "리더십", "협상",
	"정리", "미니멀", "청소", "정돈",
	"건강", "운동", "다이어트", "근력", "요가", "필라테스",
	"요리", "레시피", "집밥", "베이킹", "빵",
}

var bizQueries = []string{
	"투자", "주식", "부동산", "경제", "돈", "자산", "파이어", "연금", "절약",
	"마케팅", "브랜딩", "전략", "기획", "창업", "스타트업",
	"회계", "재무", "면접", "이직", "커리어", "취업",
	"리더", "조직", "팀", "관리", "성과",
}

var techQueries = []string{
	"파이썬", "자바", "자바스크립트", "리액트", "뷰", "장고", "스프링",
	"코딩", "알고리즘", "자료구조", "면접", "CS",
	"데이터", "SQL", "데이터분석", "머신러닝", "딥러닝", "인공지능", "LLM",
	"클라우드", "도커", "쿠버네티스", "리눅스", "네트워크", "보안",
}

var hobbyQueries = []string{
	"여행", "지도", "산책", "캠핑", "등산", "바다", "제주", "부산", "일본", "유럽",
	"커피", "와인", "칵테일", "맥주", "디저트",
	"반려견", "강아지", "고양이", "식물", "가드닝",
	"그림", "드로잉", "수채화", "캘리그라피", "사진",
	"요리", "한식", "중식", "일식", "양식",
}

var kidsQueries = []string{
	"어린이", "초등", "중등", "청소년",
	"과학", "수학", "영어", "한국사", "세계사",
	"동화", "그림책", "만화", "학습만화",
}

var lightNovelQueries = []string{
	"라이트노벨", "라노벨", "ライトノベル",
	"전격문고", "MF문고J", "스니커문고", "GA문고", "HJ문고",
	"노블엔진", "노블엔진 POP", "J-Novel", "익스트림노벨",
	"키노의 여행", "사오", "소드 아트 온라인", "리제로", "Re:제로",
}

var lightNovelTitleQueries = []string{
	"이세계", "전생", "환생", "치트", "용사", "마왕", "던전", "길드",
	"연애", "러브코미디", "러브 코미디", "라브코메", "하이스쿨", "학원", "동아리",
	"선배", "후배", "여동생", "소꿉친구",
	"마법", "검", "소드", "기사", "왕녀", "공주", "성녀", "미궁",
	"스킬", "레벨", "랭크", "최강", "무쌍", "먼치킨",
	"헌터", "아카데미", "용병",
}

var romComQueries = []string{
	"하렘", "후궁", "미소녀",
	"여동생", "소꿉친구", "선배", "후배", "동거", "약혼", "혼약",
	"전학생", "학생회", "메이드", "집사",
	"사역마", "계약", "소환", "정령",
	"마왕", "용사", "성녀", "마법소녀",
	"러브코미디", "러브 코미디", "연애", "고백", "첫사랑", "삼각관계",
	"츤데레", "얀데레", "멘헤라",
}

// DefaultQueries returns the full seed query list in shelf order.
func DefaultQueries() []string {
	groups := [][]string{
		fictionQueries, humanitiesQueries, lifeQueries, bizQueries,
		techQueries, hobbyQueries, kidsQueries,
		lightNovelQueries, lightNovelTitleQueries, romComQueries,
	}
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
