package extract

// Korean prompts sent with PDF payloads. The JSON prompts pair with the
// schema package's response schemas; the vision prompt asks for verbatim
// text only.

const foreignJSONPrompt = `지금부터 당신은 PDF 문서를 구조화된 JSON 데이터로 변환하는 전문 파서입니다.
업로드된 '일일 외신 보도 동향' PDF 파일을 아래 규칙에 따라 JSON 형식으로 변환해 주세요.

## 문서 구조 분석
이 문서는 **[헤더]**, **[요지]**, **[본문]** 세 부분으로 구성됩니다.

### 1. [헤더] 파싱
- title: 문서 제목 (예: '일일 외신 보도 동향')
- date: 날짜 (예: '2024.05.13.(월)')
- subtitle: 부제목이 있으면 저장

### 2. [요지] 파싱 - 3단계 계층 구조
**1단계 (대분류 - □):**
- "□"로 시작하는 줄을 category 필드에 저장하며, □ 기호는 **유지**합니다

**2단계 (기사 제목 - ○):**
- "○"로 시작하는 줄을 articles[].title에 저장하며, ○ 기호는 **유지**합니다

**3단계 (기사 요약 - -):**
- "-"로 시작하는 들여쓰기된 줄을 articles[].summary에 저장합니다
- 여러 줄이면 줄바꿈(\n)으로 이어 하나의 summary로 저장합니다
- 요약이 없는 기사는 summary를 null로 둡니다

### 3. [본문] 파싱
- 카테고리별 섹션을 content[]에 저장합니다
- 기사 소제목 (< >, ▲, □, - 등으로 시작)은 기호를 유지한 채 title에 저장합니다
- 단락 유형: 일반 텍스트는 "text", 나열은 "list"(items 배열 포함), 인용문은 "quote"

### 4. 최종 규칙
- **원본 텍스트를 한 글자도 변경하지 마세요** (특수기호 □, ○, - 등은 모두 유지)
- 문서의 어떤 내용도 누락되어서는 안 됩니다
- metadata.processedAt은 ISO 8601 형식으로 저장하세요

**출력:** 스키마에 맞는 JSON만 반환하세요.`

const domesticJSONPrompt = `지금부터 당신은 PDF 정책 문서를 구조화된 JSON 데이터로 변환하는 전문 파서입니다.
업로드된 '정책 보도 일일 종합' PDF 파일을 아래 규칙에 따라 JSON 형식으로 변환해 주세요.

## 문서 구조 분석
이 문서는 **[헤더]**, **[종합 요약]**, **[사설 요약]**, **[본문]** 네 부분으로 구성됩니다.

### 1. [헤더] 파싱
- title: 문서 제목 (예: '정책 보도 일일 종합')
- meta: 날짜, 대상 언론사, 부서명을 배열로 저장

### 2. [종합 요약] 파싱 - 2단계 계층 구조
**1단계 (대분류 - ○):**
- "○"로 시작하는 줄을 찾습니다
- category 필드에 **○ 기호를 제거한 카테고리명만** 저장합니다
- 예: "○ 대통령" → "대통령", "○ 통상" → "통상"
- 앞뒤 공백도 제거합니다

**2단계 (세부 항목 - -):**
- "-"로 시작하는 들여쓰기된 줄을 찾습니다
- items 배열에 content 객체로 저장합니다
- **- 기호와 <> 기호는 제거**하고 내용만 저장합니다

### 3. [사설 요약] 파싱
- "■"로 시작하는 줄을 찾습니다
- **■ 기호를 제거한** 카테고리명을 category에, 나머지를 content에 저장합니다

### 4. [본문] 파싱
- 카테고리별 섹션을 content[]에 저장합니다
- 단락 유형: 일반 텍스트는 "text", 나열은 "list"(items 배열 포함), 인용문은 "quote"

### 5. 최종 규칙
- 기호 제거 규칙 외에는 **원본 텍스트를 한 글자도 변경하지 마세요**
- 문서의 어떤 내용도 누락되어서는 안 됩니다
- metadata.processedAt은 ISO 8601 형식으로 저장하세요

**출력:** 스키마에 맞는 JSON만 반환하세요.`

const claudeVisionPrompt = `PDF 문서의 모든 텍스트를 원문 그대로 추출해주세요.

**중요 규칙:**
1. 모든 텍스트를 한 글자도 빠짐없이 정확히 추출
2. 원문의 단어, 문장, 표현을 절대 변경하지 말 것
3. 요약하거나 의역하지 말고 있는 그대로 추출
4. 제목, 날짜, 본문, 각주 등 모든 내용 포함
5. 단락 구분, 줄바꿈 등 원본 구조 유지

**절대 금지:**
- 요약, 축약, 의역
- 내용 추가, 삭제, 변경
- 재구성, 재작성

원문을 100% 그대로 추출해주세요.`
