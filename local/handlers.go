package local
import (
	"io"
	"errors"
	"net/http"
	"encoding/json"
	"encoding/base64"

	"stegbox/util"
	"stegbox/stegano"
	"stegbox/cryptography"
	"stegbox/stegano/payload"
	"stegbox/stegano/stegerr"
	"stegbox/stegano/analysis"
)

/*
 * multipart form fields understood by the api:
 *	carrier		the decoy file (required)
 *	kind		"image" or "audio", guessed from the magic if absent
 *	text		an optional text secret
 *	file		an optional file secret
 *	password	optional, enables the encryption envelope
 */

type recoveredItem struct {
	Kind	string	`json:"kind"`
	Name	string	`json:"name"`
	Mime	string	`json:"mime"`
	Size	int	`json:"size"`
	Sha512	string	`json:"sha512"`
	Data	string	`json:"data"`	// base64
}

type extractResponse struct {
	RequestID	string		`json:"request_id"`
	Items		[]recoveredItem	`json:"items"`
}

type errorResponse struct {
	RequestID	string	`json:"request_id"`
	Error		string	`json:"error"`
}

func handleEmbed( w http.ResponseWriter, req *http.Request, logger *util.Logger, pool *Pool ) {
	reqID := util.GenID()
	carrier, kind, err := readCarrier( req )
	if err != nil {
		failRequest( w, reqID, err, logger )
		return
	}

	items, err := readSecretItems( req )
	if err != nil {
		failRequest( w, reqID, err, logger )
		return
	}
	password := util.FixUnicode( req.FormValue("password") )

	var (
		result	[]byte
		opErr	error
	)
	err = pool.Run( func() {
		result, opErr = stegano.Embed( carrier, kind, items, password )
	})
	if err != nil {
		failBusy( w, reqID, err, logger )
		return
	}
	if opErr != nil {
		failRequest( w, reqID, opErr, logger )
		return
	}

	logger.LogInfo( "embed " + reqID + ": " + util.HumanSize( int64(len(result)) ) + " " + kind + " carrier produced" )
	if kind == stegano.KindAudio {
		w.Header().Set( "Content-Type", "audio/wav" )
	} else {
		w.Header().Set( "Content-Type", "image/png" )
	}
	w.WriteHeader( http.StatusOK )
	w.Write( result )
}

func handleExtract( w http.ResponseWriter, req *http.Request, logger *util.Logger, pool *Pool ) {
	reqID := util.GenID()
	carrier, kind, err := readCarrier( req )
	if err != nil {
		failRequest( w, reqID, err, logger )
		return
	}
	password := util.FixUnicode( req.FormValue("password") )

	var (
		items	[]payload.SecretItem
		opErr	error
	)
	err = pool.Run( func() {
		items, opErr = stegano.Extract( carrier, kind, password )
	})
	if err != nil {
		failBusy( w, reqID, err, logger )
		return
	}
	if opErr != nil {
		failRequest( w, reqID, opErr, logger )
		return
	}

	resp := extractResponse{ RequestID: reqID }
	for _, item := range items {
		resp.Items = append( resp.Items, recoveredItem{
			Kind: item.Kind,
			Name: item.Name,
			Mime: item.Mime,
			Size: len( item.Data ),
			Sha512: cryptography.Hash( item.Data ),
			Data: base64.StdEncoding.EncodeToString( item.Data ),
		})
	}
	logger.LogInfo( "extract " + reqID + ": recovered items from " + kind + " carrier" )
	writeJSON( w, http.StatusOK, resp )
}

func handleAnalyze( w http.ResponseWriter, req *http.Request, logger *util.Logger, pool *Pool ) {
	reqID := util.GenID()
	carrier, err := readUpload( req, "carrier" )
	if err != nil {
		failRequest( w, reqID, err, logger )
		return
	}

	var (
		report	*analysis.Report
		opErr	error
	)
	err = pool.Run( func() {
		var samples []byte
		samples, opErr = stegano.CarrierSamples( carrier )
		if opErr == nil {
			report = analysis.Analyze( samples )
		}
	})
	if err != nil {
		failBusy( w, reqID, err, logger )
		return
	}
	if opErr != nil {
		failRequest( w, reqID, opErr, logger )
		return
	}
	writeJSON( w, http.StatusOK, report )
}

func readCarrier( req *http.Request ) ([]byte, string, error) {
	carrier, err := readUpload( req, "carrier" )
	if err != nil {
		return nil, "", err
	}
	kind := req.FormValue( "kind" )
	if kind == "" {
		kind = stegano.DetectKind( carrier )
	}
	return carrier, kind, nil
}

func readUpload( req *http.Request, field string ) ([]byte, error) {
	f, _, err := req.FormFile( field )
	if err != nil {
		return nil, stegerr.Inputf("Missing %q upload: %v.", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll( f )
	if err != nil {
		return nil, stegerr.Inputf("Failed to read %q upload: %v.", field, err)
	}
	return data, nil
}

func readSecretItems( req *http.Request ) ([]payload.SecretItem, error) {
	items := []payload.SecretItem{}

	if text := req.FormValue( "text" ); text != "" {
		items = append( items, payload.SecretItem{
			Kind: payload.KindText,
			Name: "message.txt",
			Mime: "text/plain",
			Data: []byte( text ),
		})
	}

	f, header, err := req.FormFile( "file" )
	if err == nil {
		defer f.Close()
		data, err := io.ReadAll( f )
		if err != nil {
			return nil, stegerr.Inputf("Failed to read secret file: %v.", err)
		}
		mime := header.Header.Get( "Content-Type" )
		if mime == "" {
			mime = "application/octet-stream"
		}
		items = append( items, payload.SecretItem{
			Kind: payload.KindFile,
			Name: header.Filename,
			Mime: mime,
			Data: data,
		})
	}

	if len(items) == 0 {
		return nil, stegerr.Inputf("No secret items supplied, provide text and/or a file.")
	}
	return items, nil
}

// map the error taxonomy onto http status codes.
func errStatus( err error ) int {
	var (
		inputErr	*stegerr.InputError
		formatErr	*stegerr.FormatError
		capErr		*stegerr.CapacityError
		authErr		*stegerr.AuthError
	)
	switch {
	case errors.As( err, &inputErr ):
		return http.StatusBadRequest
	case errors.As( err, &capErr ):
		return http.StatusRequestEntityTooLarge
	case errors.As( err, &formatErr ):
		return http.StatusUnprocessableEntity
	case errors.As( err, &authErr ):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func failRequest( w http.ResponseWriter, reqID string, err error, logger *util.Logger ) {
	logger.LogError( err )
	writeJSON( w, errStatus( err ), errorResponse{ reqID, err.Error() } )
}

func failBusy( w http.ResponseWriter, reqID string, err error, logger *util.Logger ) {
	logger.LogWarning( err.Error() )
	writeJSON( w, http.StatusServiceUnavailable, errorResponse{ reqID, err.Error() } )
}

func writeJSON( w http.ResponseWriter, status int, body any ) {
	w.Header().Set( "Content-Type", "application/json" )
	w.WriteHeader( status )
	json.NewEncoder( w ).Encode( body )
}
