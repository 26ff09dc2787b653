package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Сканер контекстов
	ScnInfo             Code = 1000
	ScnUnterminatedMath Code = 1001
	ScnUnbalancedBrace  Code = 1002

	// Стилистические предупреждения, которые нельзя безопасно исправить
	StyInfo               Code = 2000
	StyUnbracedArgument   Code = 2001
	StyFontSwitchUnscoped Code = 2002
	StyMultipleOver       Code = 2003
	StyDefWithParams      Code = 2004
	StyFontSwitchInMath   Code = 2005

	// Ввод-вывод
	IOInfo       Code = 4000
	IOReadError  Code = 4001
	IOWriteError Code = 4002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		ScnInfo:               "Scanner information",
		ScnUnterminatedMath:   "Unterminated math delimiter",
		ScnUnbalancedBrace:    "Unbalanced brace",
		StyInfo:               "Style information",
		StyUnbracedArgument:   "Macro argument is not braced",
		StyFontSwitchUnscoped: "Font switch without a group",
		StyMultipleOver:       "Several \\over in one group",
		StyDefWithParams:      "\\def with parameter text",
		StyFontSwitchInMath:   "Font switch has no math equivalent",
		IOInfo:                "I/O information",
		IOReadError:           "Cannot read file",
		IOWriteError:          "Cannot write file",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
