// Package imagen декодирует фотографии профиля, переданные клиентом строкой base64.
//
// Клиенты присылают foto_perfil либо как data-URI
// ("data:image/png;base64,...."), либо как голый base64. Префикс, если он есть,
// отбрасывается, оставшаяся часть декодируется в бинарный буфер.
package imagen

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

// dataURIPattern соответствует префиксу data-URI вида "data:image/<тип>;base64,".
var dataURIPattern = regexp.MustCompile(`^data:image/\w+;base64,`)

// Decode преобразует строку с фотографией в бинарный буфер.
//
// Пустая строка считается отсутствием фотографии: возвращается nil без ошибки.
func Decode(fotoPerfil string) ([]byte, error) {
	const op = "imagen.Decode"

	if fotoPerfil == "" {
		return nil, nil
	}

	data := dataURIPattern.ReplaceAllString(fotoPerfil, "")
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf, nil
}
