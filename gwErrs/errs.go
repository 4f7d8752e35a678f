package gwErrs

// Err

type Err string

func (e Err) Error() string {
	return string(e)
}

// ErrWithDesc

type ErrWithDesc struct {
	Err  Err
	Desc string
}

func (e ErrWithDesc) Error() string {
	return e.Err.Error() + ", desc:" + e.Desc
}

func (e ErrWithDesc) Unwrap() error {
	return e.Err
}

// errors

const (
	InvalidArgument = Err("invalid_argument")
	BadResponse     = Err("bad_response")
	BadPhone        = Err("bad_phone")
	BadXml          = Err("bad_xml")
	SoapFault       = Err("soap_fault")
	ServiceNA       = Err("service_not_available")
	NotAuthorized   = Err("not_authorized")
	BadStatusCode   = Err("bad_status_code")
	ObjectNotFound  = Err("object_not_found")
	BadJson         = Err("bad_json")
	BadQueryParams  = Err("bad_query_params")
)
